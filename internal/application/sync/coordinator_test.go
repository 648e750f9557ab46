package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogb/agroledger/internal/application/sync"
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: un store local por tabla con banderas dirty y un remoto en memoria
// con puntos de inyección de fallos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeLocal struct {
	rows  map[string]map[string]sync.Row // tabla → uuid → fila
	dirty map[string]map[string]bool
}

func newFakeLocal(tables ...string) *fakeLocal {
	l := &fakeLocal{
		rows:  make(map[string]map[string]sync.Row),
		dirty: make(map[string]map[string]bool),
	}
	for _, t := range tables {
		l.rows[t] = make(map[string]sync.Row)
		l.dirty[t] = make(map[string]bool)
	}
	return l
}

func (l *fakeLocal) put(table, uuid, lastUpdated string, dirty bool) {
	l.rows[table][uuid] = sync.Row{"uuid": uuid, "last_updated": lastUpdated, "product": "TOMATE"}
	l.dirty[table][uuid] = dirty
}

func (l *fakeLocal) DirtyRows(table string) ([]sync.Row, error) {
	var out []sync.Row
	for uuid, isDirty := range l.dirty[table] {
		if isDirty {
			out = append(out, l.rows[table][uuid])
		}
	}
	return out, nil
}

func (l *fakeLocal) MarkSynced(table, uuid string) error {
	l.dirty[table][uuid] = false
	return nil
}

func (l *fakeLocal) Watermark(table string) (string, error) {
	wm := entity.EpochTimestamp
	for _, row := range l.rows[table] {
		if lu, _ := row["last_updated"].(string); lu > wm {
			wm = lu
		}
	}
	return wm, nil
}

func (l *fakeLocal) UpsertRemote(table string, row sync.Row) error {
	uuid, _ := row["uuid"].(string)
	l.rows[table][uuid] = row
	l.dirty[table][uuid] = false
	return nil
}

func (l *fakeLocal) PendingCount(table string) (int, error) {
	n := 0
	for _, isDirty := range l.dirty[table] {
		if isDirty {
			n++
		}
	}
	return n, nil
}

var errRemoto = errors.New("remoto caído (inyectado)")

type fakeRemote struct {
	rows map[string]map[string]sync.Row

	upsertCalls    int
	failUpsertAt   int // 1-based; 0 = nunca falla
	selectErr      map[string]error
	onUpsert       func()
	selectRequests []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		rows:      make(map[string]map[string]sync.Row),
		selectErr: make(map[string]error),
	}
}

func (r *fakeRemote) Upsert(_ context.Context, table string, row sync.Row) error {
	r.upsertCalls++
	if r.failUpsertAt > 0 && r.upsertCalls >= r.failUpsertAt {
		return errRemoto
	}
	if r.onUpsert != nil {
		r.onUpsert()
	}
	if r.rows[table] == nil {
		r.rows[table] = make(map[string]sync.Row)
	}
	uuid, _ := row["uuid"].(string)
	r.rows[table][uuid] = row
	return nil
}

func (r *fakeRemote) Select(_ context.Context, table, watermark string) ([]sync.Row, error) {
	r.selectRequests = append(r.selectRequests, table+"@"+watermark)
	if err := r.selectErr[table]; err != nil {
		return nil, err
	}
	var out []sync.Row
	for _, row := range r.rows[table] {
		if lu, _ := row["last_updated"].(string); lu > watermark {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRemote) Ping(context.Context) error { return nil }

func newCoordinator(local *fakeLocal, remote sync.RemoteStore, tables ...string) *sync.Coordinator {
	return sync.NewCoordinator(local, remote, nil, tables, logger.Nop())
}

// fakeReport clave→valor en memoria, compartible entre coordinadores para
// simular un reinicio del proceso.
type fakeReport struct {
	kv map[string]string
}

func newFakeReport() *fakeReport { return &fakeReport{kv: make(map[string]string)} }

func (r *fakeReport) Get(key string) (string, error) { return r.kv[key], nil }

func (r *fakeReport) Set(key, value string) error {
	r.kv[key] = value
	return nil
}

const (
	ts1 = "2026-03-10T08:00:00.000Z"
	ts2 = "2026-03-10T09:00:00.000Z"
	ts3 = "2026-03-10T10:00:00.000Z"
)

// ──────────────────────────────────────────────────────────────────────────────
// Push
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncTable_PushSubeYLimpiaDirty(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	local.put("sales", "b", ts2, true)
	remote := newFakeRemote()
	coord := newCoordinator(local, remote, "sales")

	st := coord.SyncTable(context.Background(), "sales")

	assert.Empty(t, st.Err)
	assert.Equal(t, 2, st.Pushed)
	assert.Len(t, remote.rows["sales"], 2)
	assert.False(t, local.dirty["sales"]["a"], "fila subida queda limpia")
	assert.False(t, local.dirty["sales"]["b"])

	pending, err := coord.Pending()
	require.NoError(t, err)
	assert.Equal(t, 0, pending["sales"])
}

func TestPush_FalloAMitadDeLote(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	local.put("sales", "b", ts2, true)
	remote := newFakeRemote()
	remote.failUpsertAt = 2 // la segunda fila falla
	coord := newCoordinator(local, remote, "sales")

	st := coord.SyncTable(context.Background(), "sales")

	assert.Contains(t, st.Err, "remoto caído")
	assert.Equal(t, 1, st.Pushed, "lo subido antes del fallo cuenta")

	pending, err := coord.Pending()
	require.NoError(t, err)
	assert.Equal(t, 1, pending["sales"], "la fila no subida sigue dirty para el próximo ciclo")
}

func TestPush_SegundoCicloEsNoOp(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	remote := newFakeRemote()
	coord := newCoordinator(local, remote, "sales")

	first := coord.SyncTable(context.Background(), "sales")
	require.Empty(t, first.Err)
	require.Equal(t, 1, first.Pushed)
	rowAfterFirst := remote.rows["sales"]["a"]

	second := coord.SyncTable(context.Background(), "sales")

	assert.Empty(t, second.Err)
	assert.Equal(t, 0, second.Pushed, "sin filas dirty no hay push")
	assert.Equal(t, rowAfterFirst, remote.rows["sales"]["a"], "el estado remoto no cambia")
	assert.False(t, local.dirty["sales"]["a"], "dirty local tampoco cambia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pull
// ──────────────────────────────────────────────────────────────────────────────

func TestPull_AplicaFilasYAvanzaWatermark(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, false)
	remote := newFakeRemote()
	remote.rows["sales"] = map[string]sync.Row{
		"b": {"uuid": "b", "last_updated": ts2, "product": "LECHUGA"},
		"c": {"uuid": "c", "last_updated": ts3, "product": "PEPINO"},
	}
	coord := newCoordinator(local, remote, "sales")

	st := coord.SyncTable(context.Background(), "sales")

	assert.Empty(t, st.Err)
	assert.Equal(t, 2, st.Pulled)
	assert.Contains(t, local.rows["sales"], "b")
	assert.Contains(t, local.rows["sales"], "c")
	assert.False(t, local.dirty["sales"]["b"], "lo bajado no queda pendiente de push")
	assert.False(t, local.dirty["sales"]["c"])

	wm, err := local.Watermark("sales")
	require.NoError(t, err)
	assert.Equal(t, ts3, wm, "el watermark avanza al last_updated más alto aplicado")

	again := coord.SyncTable(context.Background(), "sales")
	assert.Equal(t, 0, again.Pulled, "re-ejecutar inmediatamente no baja nada")
}

func TestPull_TablaVaciaUsaElEpoch(t *testing.T) {
	local := newFakeLocal("sales")
	remote := newFakeRemote()
	remote.rows["sales"] = map[string]sync.Row{
		"a": {"uuid": "a", "last_updated": ts1},
	}
	coord := newCoordinator(local, remote, "sales")

	st := coord.SyncTable(context.Background(), "sales")

	require.Empty(t, st.Err)
	assert.Equal(t, 1, st.Pulled, "con tabla local vacía baja toda la historia")
	require.NotEmpty(t, remote.selectRequests)
	assert.Equal(t, "sales@"+entity.EpochTimestamp, remote.selectRequests[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento de fallos, guard y modo offline
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncAll_AislamientoDeFallosPorTabla(t *testing.T) {
	local := newFakeLocal("sales", "harvests")
	local.put("harvests", "h1", ts1, true)
	remote := newFakeRemote()
	remote.selectErr["sales"] = errRemoto
	coord := newCoordinator(local, remote, "sales", "harvests")

	statuses := coord.SyncAll(context.Background())

	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Err, "remoto caído", "sales falla en el pull")
	assert.Empty(t, statuses[1].Err, "harvests sincroniza igual")
	assert.Equal(t, 1, statuses[1].Pushed)
}

func TestSyncTable_NoReentrante(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	remote := newFakeRemote()
	coord := newCoordinator(local, remote, "sales")

	// Reentrada simulada: el upsert dispara otro ciclo de la misma tabla.
	var inner sync.TableStatus
	remote.onUpsert = func() {
		inner = coord.SyncTable(context.Background(), "sales")
	}

	outer := coord.SyncTable(context.Background(), "sales")

	assert.Empty(t, outer.Err)
	assert.Equal(t, domain.ErrSyncInFlight.Error(), inner.Err, "el segundo llamador no espera ni duplica")
}

func TestSyncTable_TablaDesconocida(t *testing.T) {
	coord := newCoordinator(newFakeLocal("sales"), newFakeRemote(), "sales")

	st := coord.SyncTable(context.Background(), "users")

	assert.Equal(t, domain.ErrUnknownTable.Error(), st.Err)
}

func TestRemoteNil_SincronizacionDeshabilitada(t *testing.T) {
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	coord := newCoordinator(local, nil, "sales")

	statuses := coord.SyncAll(context.Background())

	require.Len(t, statuses, 1)
	assert.Equal(t, domain.ErrRemoteDisabled.Error(), statuses[0].Err)
	assert.True(t, local.dirty["sales"]["a"], "nada se marca sincronizado en modo offline")

	assert.ErrorIs(t, coord.Ping(context.Background()), domain.ErrRemoteDisabled)
}

func TestStatus_ConservaElUltimoResultadoPorTabla(t *testing.T) {
	local := newFakeLocal("sales", "harvests")
	local.put("sales", "a", ts1, true)
	coord := newCoordinator(local, newFakeRemote(), "sales", "harvests")

	coord.SyncTable(context.Background(), "sales")
	statuses := coord.Status()

	require.Len(t, statuses, 2)
	assert.Equal(t, "sales", statuses[0].Table)
	assert.Equal(t, 1, statuses[0].Pushed)
	assert.False(t, statuses[0].LastRun.IsZero())
	assert.True(t, statuses[1].LastRun.IsZero(), "harvests nunca corrió: estado cero")
}

func TestStatus_InformePersistidoSobreviveReinicio(t *testing.T) {
	report := newFakeReport()
	local := newFakeLocal("sales")
	local.put("sales", "a", ts1, true)
	coord := sync.NewCoordinator(local, newFakeRemote(), report, []string{"sales"}, logger.Nop())

	first := coord.SyncTable(context.Background(), "sales")
	require.Empty(t, first.Err)

	// Nuevo coordinador sobre el mismo ReportStore: simula un reinicio.
	reborn := sync.NewCoordinator(newFakeLocal("sales"), newFakeRemote(), report, []string{"sales"}, logger.Nop())
	statuses := reborn.Status()

	require.Len(t, statuses, 1)
	assert.Equal(t, "sales", statuses[0].Table)
	assert.Equal(t, 1, statuses[0].Pushed)
	assert.False(t, statuses[0].LastRun.IsZero(), "el informe recargado conserva la última corrida")
}
