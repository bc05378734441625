package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/outcome"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/validation"
)

type createUser struct{ Name string }

type getUser struct{ ID string }

type user struct{ ID, Name string }

type userCreated struct{ ID string }

type createUserHandler struct{}

func (createUserHandler) Handle(context.Context, createUser) outcome.Option[validation.Error] {
	return validation.NoError()
}

type otherCreateUserHandler struct{}

func (*otherCreateUserHandler) Handle(context.Context, createUser) outcome.Option[validation.Error] {
	return validation.Conflict("user.exists", "").Option()
}

type getUserHandler struct{}

func (getUserHandler) Handle(_ context.Context, q getUser) outcome.Result[user, validation.Error] {
	return validation.Ok(user{ID: q.ID})
}

// both handles a request and an event.
type both struct{}

func (both) Handle(context.Context, createUser) outcome.Option[validation.Error] {
	return validation.NoError()
}

type auditHandler struct{}

func (auditHandler) Handle(context.Context, userCreated) error { return nil }

type unrelated struct{ X int }

func handleEvent(name string, calls *[]string) dispatch.EventHandler[userCreated] {
	return dispatch.EventHandlerFunc[userCreated](func(context.Context, userCreated) error {
		*calls = append(*calls, name)
		return nil
	})
}

func TestBuildRegistry_NoModules(t *testing.T) {
	_, err := registry.BuildRegistry(nil, registry.AllShapes(), registry.Transient)
	require.Error(t, err)
	assert.ErrorIs(t, err, berr.ErrNoModulesProvided)

	var ce *berr.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, berr.ReasonNoModulesProvided, ce.Reason)

	_, err = registry.NewBuilder().Build()
	assert.ErrorIs(t, err, berr.ErrNoModulesProvided)
}

func TestBuildRegistry_SkipsUnrelatedCandidates(t *testing.T) {
	m := registry.NewModule("users",
		registry.Type[createUserHandler](registry.RequestOf[createUser]()),
		registry.Instance(unrelated{X: 1}, registry.RequestOf[createUser]()),
		registry.Instance(auditHandler{}, registry.EventOf[userCreated]()),
	)

	tbl, err := registry.BuildRegistry([]registry.Module{m}, registry.MediatorShapes(), registry.Transient)
	require.NoError(t, err)

	assert.Equal(t, 1, tbl.Len(), "the event handler and the unrelated type are skipped")
	require.Len(t, tbl.Lookup(registry.RequestContract[createUser]()), 1)
	assert.Empty(t, tbl.Lookup(registry.EventContract[userCreated]()))
}

func TestBuildRegistry_FirstSupportedBindingWins(t *testing.T) {
	m := registry.NewModule("mixed",
		registry.Instance(both{}, registry.EventOf[userCreated](), registry.RequestOf[createUser]()),
	)

	// both does not implement EventHandler[userCreated], so the request binding is taken.
	tbl, err := registry.BuildRegistry([]registry.Module{m}, registry.AllShapes(), registry.Transient)
	require.NoError(t, err)
	assert.Len(t, tbl.Lookup(registry.RequestContract[createUser]()), 1)

	// Factories are not type checked up front: declaration order alone decides.
	f := registry.Factory(
		func(context.Context) (any, error) { return auditHandler{}, nil },
		registry.EventOf[userCreated](),
		registry.RequestOf[createUser](),
	)
	m = registry.NewModule("ordered", f)

	for i := 0; i < 3; i++ {
		tbl, err = registry.BuildRegistry([]registry.Module{m}, registry.AllShapes(), registry.Transient)
		require.NoError(t, err)
		assert.Len(t, tbl.Lookup(registry.EventContract[userCreated]()), 1)
		assert.Empty(t, tbl.Lookup(registry.RequestContract[createUser]()))
	}

	tbl, err = registry.BuildRegistry([]registry.Module{m}, registry.MediatorShapes(), registry.Transient)
	require.NoError(t, err)
	assert.Len(t, tbl.Lookup(registry.RequestContract[createUser]()), 1)
}

func TestBuildRegistry_InvalidDescriptor(t *testing.T) {
	_, err := registry.BuildRegistry(
		[]registry.Module{registry.NewModule("bad", registry.Candidate{})},
		registry.AllShapes(),
		registry.Transient,
	)
	assert.ErrorIs(t, err, berr.ErrInvalidDescriptor)

	_, err = registry.BuildRegistry(
		[]registry.Module{registry.NewModule("iface", registry.Type[dispatch.RequestHandler[createUser]](registry.RequestOf[createUser]()))},
		registry.AllShapes(),
		registry.Transient,
	)
	assert.ErrorIs(t, err, berr.ErrInvalidDescriptor, "interface types cannot be constructed")
}

func TestBuildRegistry_AmbiguousRequestFailsFast(t *testing.T) {
	m := registry.NewModule("users",
		registry.Type[createUserHandler](registry.RequestOf[createUser]()),
		registry.Type[*otherCreateUserHandler](registry.RequestOf[createUser]()),
	)

	_, err := registry.BuildRegistry([]registry.Module{m}, registry.AllShapes(), registry.Transient)
	require.Error(t, err)
	assert.ErrorIs(t, err, berr.ErrAmbiguousHandler)
	assert.Contains(t, err.Error(), "request(registry_test.createUser)")
}

func TestBuildRegistry_DuplicateTypeRegisteredOnce(t *testing.T) {
	m := registry.NewModule("users", registry.Type[createUserHandler](registry.RequestOf[createUser]()))

	tbl, err := registry.BuildRegistry([]registry.Module{m, m}, registry.AllShapes(), registry.Transient)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestBuildRegistry_EventOrder(t *testing.T) {
	var calls []string

	m := registry.NewModule("events",
		registry.Instance(handleEvent("unordered-1", &calls), registry.EventOf[userCreated]()),
		registry.Instance(handleEvent("b", &calls), registry.EventOf[userCreated]()).WithOrder(2),
		registry.Instance(handleEvent("unordered-2", &calls), registry.EventOf[userCreated]()),
		registry.Instance(handleEvent("a", &calls), registry.EventOf[userCreated]()).WithOrder(1),
	)

	tbl, err := registry.BuildRegistry([]registry.Module{m}, registry.AllShapes(), registry.Transient)
	require.NoError(t, err)

	invs, err := registry.NewContainer(tbl).ResolveAll(t.Context(), registry.EventContract[userCreated]())
	require.NoError(t, err)

	for _, inv := range invs {
		_, err := inv(t.Context(), userCreated{ID: "1"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "unordered-1", "unordered-2"}, calls)

	ds := tbl.Lookup(registry.EventContract[userCreated]())
	order, ok := ds[0].Order()
	assert.True(t, ok)
	assert.Equal(t, 1, order)

	_, ok = ds[3].Order()
	assert.False(t, ok)
}

func TestBuilder_LifetimeAppliesToLaterModules(t *testing.T) {
	tbl, err := registry.NewBuilder().
		RegisterHandlerModule(registry.NewModule("a", registry.Type[createUserHandler](registry.RequestOf[createUser]()))).
		SetDefaultLifetime(registry.Singleton).
		RegisterHandlerModule(registry.NewModule("b", registry.Type[getUserHandler](registry.QueryOf[getUser, user]()))).
		RegisterHandlerModule(registry.NewModule("c",
			registry.Type[auditHandler](registry.EventOf[userCreated]()).WithLifetime(registry.Scoped))).
		Build()
	require.NoError(t, err)

	assert.Equal(t, registry.Transient, tbl.Lookup(registry.RequestContract[createUser]())[0].Lifetime())
	assert.Equal(t, registry.Singleton, tbl.Lookup(registry.QueryContract[getUser, user]())[0].Lifetime())
	assert.Equal(t, registry.Scoped, tbl.Lookup(registry.EventContract[userCreated]())[0].Lifetime())
}

func TestParseLifetime(t *testing.T) {
	for _, l := range []registry.Lifetime{registry.Transient, registry.Scoped, registry.Singleton} {
		got, err := registry.ParseLifetime(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := registry.ParseLifetime("forever")
	assert.Error(t, err)
}

func TestContractString(t *testing.T) {
	assert.Equal(t, "query(registry_test.getUser -> registry_test.user)", registry.QueryContract[getUser, user]().String())
	assert.Equal(t, "event(registry_test.userCreated)", registry.EventContract[userCreated]().String())
}

func TestFactoryErrorsSurfaceAtResolve(t *testing.T) {
	boom := errors.New("boom")
	m := registry.NewModule("f",
		registry.Factory(func(context.Context) (any, error) { return nil, boom }, registry.RequestOf[createUser]()),
		registry.Factory(func(context.Context) (any, error) { return unrelated{}, nil }, registry.QueryOf[getUser, user]()),
	)

	tbl, err := registry.BuildRegistry([]registry.Module{m}, registry.AllShapes(), registry.Transient)
	require.NoError(t, err)

	c := registry.NewContainer(tbl)

	_, err = c.ResolveAll(t.Context(), registry.RequestContract[createUser]())
	assert.ErrorIs(t, err, boom)

	_, err = c.ResolveAll(t.Context(), registry.QueryContract[getUser, user]())
	assert.ErrorIs(t, err, berr.ErrHandlerTypeMismatch)
}
