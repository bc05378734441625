/*
Package registry turns handler modules and decorator declarations into an immutable dispatch Table
and resolves handlers from it.

Registration is explicit: a Module lists Candidates, each naming the contracts it implements
through RequestOf, QueryOf and EventOf bindings. Decorators are applied in declaration order, so
the first one applied sits closest to the handler and the last one closest to the caller.
*/
package registry
