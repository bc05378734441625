/*
Package outcome provides the two value types every handler returns instead of failing loudly:
Option, which optionally carries a value, and Result, which carries exactly one of a success value
or an error value. Both are immutable and safe to share across goroutines.
*/
package outcome
