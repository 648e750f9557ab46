package sync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/pkg/logger"
)

// TableStatus resultado del último ciclo de sincronización de una tabla.
type TableStatus struct {
	Table   string    `json:"table"`
	LastRun time.Time `json:"last_run"`
	Pushed  int       `json:"pushed"`
	Pulled  int       `json:"pulled"`
	Err     string    `json:"error,omitempty"`
}

// Coordinator orquesta push y pull por tabla contra el backend compartido.
//
// Cada tabla se sincroniza con aislamiento de fallos: un error en una tabla
// (o en una fila) se registra en su estado y el ciclo continúa con el resto.
// Un ciclo por tabla es no reentrante: si la tabla ya está sincronizando, el
// segundo llamador recibe ErrSyncInFlight en el estado de esa tabla.
type Coordinator struct {
	store  TableStore
	remote RemoteStore
	report ReportStore
	tables []string
	log    *logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool
	statuses map[string]TableStatus
}

// reportKey clave del informe del último ciclo en el ReportStore.
const reportKey = "last_sync_report"

// NewCoordinator construye el coordinador. remote puede ser nil (modo
// offline puro): todo ciclo termina con ErrRemoteDisabled por tabla.
// report puede ser nil; si no lo es, el informe por tabla se persiste ahí
// y se recarga al construir, para que el estado sobreviva reinicios.
func NewCoordinator(store TableStore, remote RemoteStore, report ReportStore, tables []string, log *logger.Logger) *Coordinator {
	c := &Coordinator{
		store:    store,
		remote:   remote,
		report:   report,
		tables:   tables,
		log:      log,
		inFlight: make(map[string]bool),
		statuses: make(map[string]TableStatus),
	}
	c.loadReport()
	return c
}

// Tables devuelve las tablas configuradas, en orden de sincronización.
func (c *Coordinator) Tables() []string {
	out := make([]string, len(c.tables))
	copy(out, c.tables)
	return out
}

// SyncAll ejecuta un ciclo push+pull para cada tabla configurada y devuelve
// el estado resultante por tabla, en el orden configurado.
func (c *Coordinator) SyncAll(ctx context.Context) []TableStatus {
	out := make([]TableStatus, 0, len(c.tables))
	for _, table := range c.tables {
		out = append(out, c.SyncTable(ctx, table))
	}
	return out
}

// SyncTable ejecuta un ciclo push+pull para una sola tabla.
func (c *Coordinator) SyncTable(ctx context.Context, table string) TableStatus {
	if !c.knownTable(table) {
		return TableStatus{Table: table, LastRun: time.Now(), Err: domain.ErrUnknownTable.Error()}
	}
	if !c.acquire(table) {
		return TableStatus{Table: table, LastRun: time.Now(), Err: domain.ErrSyncInFlight.Error()}
	}
	defer c.release(table)

	st := TableStatus{Table: table, LastRun: time.Now()}
	if c.remote == nil {
		st.Err = domain.ErrRemoteDisabled.Error()
		c.saveStatus(st)
		return st
	}

	pushed, err := c.push(ctx, table)
	st.Pushed = pushed
	if err != nil {
		st.Err = err.Error()
		c.log.Error().Err(err).Str("table", table).Int("pushed", pushed).Msg("push interrumpido")
		c.saveStatus(st)
		return st
	}

	pulled, err := c.pull(ctx, table)
	st.Pulled = pulled
	if err != nil {
		st.Err = err.Error()
		c.log.Error().Err(err).Str("table", table).Int("pulled", pulled).Msg("pull interrumpido")
		c.saveStatus(st)
		return st
	}

	c.log.Info().Str("table", table).Int("pushed", pushed).Int("pulled", pulled).Msg("tabla sincronizada")
	c.saveStatus(st)
	return st
}

// push sube las filas dirty una a una, marcando cada una como sincronizada
// inmediatamente después de su upsert: un fallo a mitad de lote deja las
// filas ya subidas limpias y las restantes dirty para el próximo ciclo.
func (c *Coordinator) push(ctx context.Context, table string) (int, error) {
	rows, err := c.store.DirtyRows(table)
	if err != nil {
		return 0, err
	}
	pushed := 0
	for _, row := range rows {
		rowUUID, _ := row["uuid"].(string)
		if err := c.remote.Upsert(ctx, table, row); err != nil {
			return pushed, err
		}
		if err := c.store.MarkSynced(table, rowUUID); err != nil {
			return pushed, err
		}
		pushed++
	}
	return pushed, nil
}

// pull baja las filas remotas posteriores a la marca de agua local y las
// aplica por upsert. La marca se calcula sobre los datos locales, así que
// avanza sola a medida que se aplican filas: no hay estado de sync aparte.
func (c *Coordinator) pull(ctx context.Context, table string) (int, error) {
	wm, err := c.store.Watermark(table)
	if err != nil {
		return 0, err
	}
	rows, err := c.remote.Select(ctx, table, wm)
	if err != nil {
		return 0, err
	}
	pulled := 0
	for _, row := range rows {
		if err := c.store.UpsertRemote(table, row); err != nil {
			return pulled, err
		}
		pulled++
	}
	return pulled, nil
}

// Pending devuelve el conteo de filas dirty por tabla.
func (c *Coordinator) Pending() (map[string]int, error) {
	out := make(map[string]int, len(c.tables))
	for _, table := range c.tables {
		n, err := c.store.PendingCount(table)
		if err != nil {
			return nil, err
		}
		out[table] = n
	}
	return out, nil
}

// Status devuelve el último estado conocido por tabla (tablas nunca
// sincronizadas aparecen con estado cero).
func (c *Coordinator) Status() []TableStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TableStatus, 0, len(c.tables))
	for _, table := range c.tables {
		st, ok := c.statuses[table]
		if !ok {
			st = TableStatus{Table: table}
		}
		out = append(out, st)
	}
	return out
}

// Ping verifica accesibilidad del remoto.
func (c *Coordinator) Ping(ctx context.Context) error {
	if c.remote == nil {
		return domain.ErrRemoteDisabled
	}
	return c.remote.Ping(ctx)
}

func (c *Coordinator) knownTable(table string) bool {
	for _, t := range c.tables {
		if t == table {
			return true
		}
	}
	return false
}

func (c *Coordinator) acquire(table string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[table] {
		return false
	}
	c.inFlight[table] = true
	return true
}

func (c *Coordinator) release(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, table)
}

func (c *Coordinator) saveStatus(st TableStatus) {
	c.mu.Lock()
	c.statuses[st.Table] = st
	c.mu.Unlock()
	c.persistReport()
}

// persistReport guarda el informe completo en el ReportStore. Un fallo de
// persistencia no interrumpe la sincronización: se registra y se sigue.
func (c *Coordinator) persistReport() {
	if c.report == nil {
		return
	}
	c.mu.Lock()
	raw, err := json.Marshal(c.statuses)
	c.mu.Unlock()
	if err == nil {
		err = c.report.Set(reportKey, string(raw))
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("persistir informe de sincronización")
	}
}

// loadReport repuebla los estados con el informe persistido, si existe.
func (c *Coordinator) loadReport() {
	if c.report == nil {
		return
	}
	raw, err := c.report.Get(reportKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("leer informe de sincronización")
		return
	}
	if raw == "" {
		return
	}
	saved := make(map[string]TableStatus)
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.log.Warn().Err(err).Msg("informe de sincronización corrupto, se ignora")
		return
	}
	for table, st := range saved {
		if c.knownTable(table) {
			c.statuses[table] = st
		}
	}
}
