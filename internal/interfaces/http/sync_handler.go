package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrogb/agroledger/internal/application/dto"
	"github.com/agrogb/agroledger/internal/application/sync"
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/pkg/metrics"
)

// SyncHandler expone el ciclo de sincronización con el remoto (protegido).
type SyncHandler struct {
	coord *sync.Coordinator
}

func NewSyncHandler(coord *sync.Coordinator) *SyncHandler {
	return &SyncHandler{coord: coord}
}

// Run dispara un ciclo push+pull para todas las tablas (o solo ?table=X) y
// devuelve el estado por tabla. Siempre responde 200: los fallos por tabla
// van dentro del estado, no como error HTTP.
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	var statuses []sync.TableStatus
	if table := c.Query("table"); table != "" {
		statuses = []sync.TableStatus{h.coord.SyncTable(c.Context(), table)}
	} else {
		statuses = h.coord.SyncAll(c.Context())
	}
	for _, st := range statuses {
		metrics.SyncPushedRows.WithLabelValues(st.Table).Add(float64(st.Pushed))
		metrics.SyncPulledRows.WithLabelValues(st.Table).Add(float64(st.Pulled))
		if st.Err != "" {
			phase := "push"
			if st.Pushed > 0 || st.Pulled > 0 {
				phase = "pull"
			}
			metrics.SyncFailures.WithLabelValues(st.Table, phase).Inc()
		}
	}
	h.refreshPendingGauge()
	return c.JSON(statuses)
}

// Pending devuelve el conteo de filas dirty por tabla.
func (h *SyncHandler) Pending(c *fiber.Ctx) error {
	pending, err := h.coord.Pending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	total := 0
	for _, n := range pending {
		total += n
	}
	return c.JSON(fiber.Map{"total": total, "tables": pending})
}

// Status devuelve el último estado conocido por tabla.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.coord.Status())
}

// Ping verifica accesibilidad del remoto.
func (h *SyncHandler) Ping(c *fiber.Ctx) error {
	if err := h.coord.Ping(c.Context()); err != nil {
		if errors.Is(err, domain.ErrRemoteDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REMOTE_DISABLED", Message: "almacén remoto no configurado"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REMOTE_UNREACHABLE", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "remoto accesible"})
}

func (h *SyncHandler) refreshPendingGauge() {
	pending, err := h.coord.Pending()
	if err != nil {
		return
	}
	for table, n := range pending {
		metrics.PendingRows.WithLabelValues(table).Set(float64(n))
	}
}
