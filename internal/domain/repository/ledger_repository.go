package repository

import "github.com/agrogb/agroledger/internal/domain/entity"

// Puertos de las tablas del libro. Cada mutación debe persistir la fila con
// dirty=1 y un last_updated fresco; las escrituras corren dentro de la
// transacción local que también actualiza el snapshot (ver TxRunner).

// HarvestRepository puerto de la tabla harvests.
type HarvestRepository interface {
	Create(h *entity.Harvest) error
	GetByUUID(uuid string) (*entity.Harvest, error)
	Update(h *entity.Harvest) error
	Delete(uuid string) error
	Recent(limit int) ([]entity.Harvest, error)
}

// SaleRepository puerto de la tabla sales.
type SaleRepository interface {
	Create(s *entity.Sale) error
	GetByUUID(uuid string) (*entity.Sale, error)
	Update(s *entity.Sale) error
	Delete(uuid string) error
	Recent(limit int) ([]entity.Sale, error)
}

// PurchaseRepository puerto de la tabla purchases.
type PurchaseRepository interface {
	Create(p *entity.Purchase) error
	GetByUUID(uuid string) (*entity.Purchase, error)
	Update(p *entity.Purchase) error
	Delete(uuid string) error
	Recent(limit int) ([]entity.Purchase, error)
}

// DisposalRepository puerto de la tabla disposals.
type DisposalRepository interface {
	Create(d *entity.Disposal) error
	GetByUUID(uuid string) (*entity.Disposal, error)
	Update(d *entity.Disposal) error
	Delete(uuid string) error
	Recent(limit int) ([]entity.Disposal, error)
}
