package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	validezPorDefecto = 24 * time.Hour
	listadoCodigosMax = 1000

	qrTamanoDefecto = 256
	qrTamanoMin     = 128
	qrTamanoMax     = 1024
)

// CodigoQRService issues entrance codes. At most one code is active and
// unexpired at any instant: every issuer takes the same advisory lock and the
// partial unique index on estado backs it up.
type CodigoQRService interface {
	EmitirManual(ctx context.Context, req dto.EmitirCodigoManualRequest) (*dto.CodigoQRResponse, error)
	// EmitirAutomatico returns the current code when one is still valid; creado
	// reports whether a new one had to be minted.
	EmitirAutomatico(ctx context.Context) (resp *dto.CodigoQRResponse, creado bool, err error)
	Listar(ctx context.Context) ([]dto.CodigoQRResponse, error)
	Actual(ctx context.Context) (*dto.CodigoQRResponse, error)
	ActualPNG(ctx context.Context, size int) ([]byte, error)
}

type codigoQRService struct {
	repo repository.CodigoQRRepository
	now  func() time.Time
}

func NewCodigoQRService(repo repository.CodigoQRRepository) CodigoQRService {
	return &codigoQRService{repo: repo, now: time.Now}
}

func mapCodigoQR(c *model.CodigoQR) dto.CodigoQRResponse {
	return dto.CodigoQRResponse{
		ID:              c.ID.String(),
		CodigoQR:        c.Codigo,
		FechaGeneracion: formatTS(c.FechaGeneracion),
		FechaExpiracion: formatTS(c.FechaExpiracion),
		Estado:          c.Estado,
		TipoCodigo:      c.TipoCodigo,
	}
}

// desactivarActivo revokes the active row, if any. An unexpired code gets its
// expiry pulled back to now.
func (s *codigoQRService) desactivarActivo(tx *gorm.DB, now time.Time) error {
	activo, err := s.repo.FindActivoTx(tx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	activo.Estado = false
	if activo.FechaExpiracion.After(now) {
		activo.FechaExpiracion = now
	}
	return s.repo.DeactivateTx(tx, activo)
}

func (s *codigoQRService) EmitirManual(ctx context.Context, req dto.EmitirCodigoManualRequest) (*dto.CodigoQRResponse, error) {
	codigo := strings.TrimSpace(req.CodigoQR)
	validez := validezPorDefecto
	if req.HorasValidez != nil {
		validez = time.Duration(*req.HorasValidez) * time.Hour
	}
	now := s.now()

	nuevo := &model.CodigoQR{
		Codigo:          codigo,
		FechaGeneracion: now,
		FechaExpiracion: now.Add(validez),
		Estado:          true,
		TipoCodigo:      model.TipoCodigoManual,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.LockIssuanceTx(tx); err != nil {
			return err
		}
		existe, err := s.repo.ExistsTx(tx, codigo)
		if err != nil {
			return err
		}
		if existe {
			return conflicto("El codigo QR ya existe")
		}
		if err := s.desactivarActivo(tx, now); err != nil {
			return err
		}
		return s.crear(tx, nuevo)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("codigo", nuevo.Codigo).Time("expira", nuevo.FechaExpiracion).Msg("codigo QR manual emitido")
	resp := mapCodigoQR(nuevo)
	return &resp, nil
}

func (s *codigoQRService) EmitirAutomatico(ctx context.Context) (*dto.CodigoQRResponse, bool, error) {
	now := s.now()
	var (
		codigo *model.CodigoQR
		creado bool
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.LockIssuanceTx(tx); err != nil {
			return err
		}
		activo, err := s.repo.FindActivoTx(tx)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && activo.Vigente(now) {
			codigo = activo
			return nil
		}
		if err := s.desactivarActivo(tx, now); err != nil {
			return err
		}
		codigo = &model.CodigoQR{
			Codigo:          fmt.Sprintf("QR-%d", now.UnixMilli()),
			FechaGeneracion: now,
			FechaExpiracion: now.Add(validezPorDefecto),
			Estado:          true,
			TipoCodigo:      model.TipoCodigoDiario,
		}
		creado = true
		return s.crear(tx, codigo)
	})
	if err != nil {
		return nil, false, err
	}
	if creado {
		log.Info().Str("codigo", codigo.Codigo).Time("expira", codigo.FechaExpiracion).Msg("codigo QR diario emitido")
	}
	resp := mapCodigoQR(codigo)
	return &resp, creado, nil
}

func (s *codigoQRService) crear(tx *gorm.DB, c *model.CodigoQR) error {
	err := s.repo.CreateTx(tx, c)
	switch {
	case repository.ViolatesConstraint(err, repository.ConstraintCodigoQRActivo):
		return conflicto("Ya existe un codigo QR activo")
	case errors.Is(err, repository.ErrDuplicado):
		return conflicto("El codigo QR ya existe")
	}
	return err
}

func (s *codigoQRService) Listar(ctx context.Context) ([]dto.CodigoQRResponse, error) {
	list, err := s.repo.List(ctx, listadoCodigosMax)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CodigoQRResponse, len(list))
	for i := range list {
		out[i] = mapCodigoQR(&list[i])
	}
	return out, nil
}

func (s *codigoQRService) actual(ctx context.Context) (*model.CodigoQR, error) {
	c, err := s.repo.FindVigente(ctx, s.now())
	if err != nil {
		return nil, notFoundAs(err, "No hay un codigo QR vigente")
	}
	return c, nil
}

func (s *codigoQRService) Actual(ctx context.Context) (*dto.CodigoQRResponse, error) {
	c, err := s.actual(ctx)
	if err != nil {
		return nil, err
	}
	resp := mapCodigoQR(c)
	return &resp, nil
}

// ActualPNG renders the current code as a PNG image of size×size pixels.
func (s *codigoQRService) ActualPNG(ctx context.Context, size int) ([]byte, error) {
	c, err := s.actual(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case size == 0:
		size = qrTamanoDefecto
	case size < qrTamanoMin:
		size = qrTamanoMin
	case size > qrTamanoMax:
		size = qrTamanoMax
	}
	return qrcode.Encode(c.Codigo, qrcode.Medium, size)
}
