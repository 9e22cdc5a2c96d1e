package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/infra"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	nombreGimnasio    = "Gimnasio"
	dirComprobantes   = "comprobantes"
	prefijoReferencia = "PAG"
)

// ArchivoStorage is satisfied by *infra.Storage.
type ArchivoStorage interface {
	SaveImage(fh *multipart.FileHeader, dir string, maxSide int) (string, error)
	SaveFile(fh *multipart.FileHeader, dir string) (string, error)
	Remove(publicURL string)
}

type PagoService interface {
	// Crear derives the amount from the membership; the request never carries one.
	Crear(ctx context.Context, procesadoPor uuid.UUID, req dto.CrearPagoRequest) (*dto.PagoResponse, error)
	Listar(ctx context.Context, f dto.PagoFilter) ([]dto.PagoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error)
	// Anular marks the payment Anulado; the row is kept.
	Anular(ctx context.Context, id uuid.UUID) error
	SubirComprobante(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*dto.PagoResponse, error)
	Recibo(ctx context.Context, id uuid.UUID) (*bytes.Buffer, string, error)
}

type pagoService struct {
	repo       repository.PagoRepository
	membresias repository.MembresiaRepository
	storage    ArchivoStorage
	loc        *time.Location
	now        func() time.Time
}

func NewPagoService(
	repo repository.PagoRepository,
	membresias repository.MembresiaRepository,
	storage ArchivoStorage,
	loc *time.Location,
) PagoService {
	return &pagoService{repo: repo, membresias: membresias, storage: storage, loc: loc, now: time.Now}
}

// MontoFinal applies a percentage discount: base - base*pct/100, rounded to
// cents. A nil or zero discount returns base unchanged.
func MontoFinal(base decimal.Decimal, descuento *decimal.Decimal) decimal.Decimal {
	if descuento == nil || descuento.IsZero() {
		return base.Round(2)
	}
	return base.Sub(base.Mul(*descuento).Div(cien)).Round(2)
}

// baseMembresia is monto_pagado, or the plan price when it was never set.
func baseMembresia(m *model.Membresia) decimal.Decimal {
	if m.MontoPagado != nil {
		return *m.MontoPagado
	}
	if m.Plan != nil {
		return m.Plan.Precio
	}
	return decimal.Zero
}

func (s *pagoService) nuevaReferencia() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefijoReferencia, s.now().In(s.loc).Format("20060102"), suffix)
}

func mapPago(p *model.Pago) dto.PagoResponse {
	resp := dto.PagoResponse{
		ID:          p.ID.String(),
		IDMembresia: p.MembresiaID.String(),
		Monto:       p.Monto,
		MetodoPago:  p.MetodoPago,
		FechaPago:   formatTS(p.FechaPago),
		Comprobante: p.Comprobante,
		Referencia:  p.Referencia,
		Estado:      p.Estado,
		Notas:       p.Notas,
	}
	if p.ProcesadoPor != nil {
		s := p.ProcesadoPor.String()
		resp.ProcesadoPor = &s
	}
	return resp
}

func (s *pagoService) Crear(ctx context.Context, procesadoPor uuid.UUID, req dto.CrearPagoRequest) (*dto.PagoResponse, error) {
	membresiaID, _ := uuid.Parse(req.IDMembresia)
	m, err := s.membresias.FindByID(ctx, membresiaID)
	if err != nil {
		return nil, notFoundAs(err, "Membresia no encontrada")
	}
	if m.Estado == model.EstadoMembresiaCancelada {
		return nil, invalido("La membresia esta cancelada")
	}

	referencia := s.nuevaReferencia()
	if req.Referencia != nil && strings.TrimSpace(*req.Referencia) != "" {
		referencia = strings.TrimSpace(*req.Referencia)
	}

	p := &model.Pago{
		MembresiaID: m.ID,
		Monto:       MontoFinal(baseMembresia(m), m.DescuentoAplicado),
		MetodoPago:  req.MetodoPago,
		FechaPago:   s.now(),
		Referencia:  referencia,
		Estado:      model.EstadoPagoRegistrado,
		Notas:       req.Notas,
	}
	if procesadoPor != uuid.Nil {
		p.ProcesadoPor = &procesadoPor
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("pago_id", p.ID.String()).Str("referencia", p.Referencia).Str("monto", p.Monto.StringFixed(2)).Msg("pago registrado")
	resp := mapPago(p)
	return &resp, nil
}

func (s *pagoService) Listar(ctx context.Context, f dto.PagoFilter) ([]dto.PagoResponse, error) {
	var membresiaID *uuid.UUID
	if f.IDMembresia != "" {
		id, _ := uuid.Parse(f.IDMembresia)
		membresiaID = &id
	}
	list, err := s.repo.List(ctx, membresiaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, len(list))
	for i := range list {
		out[i] = mapPago(&list[i])
	}
	return out, nil
}

func (s *pagoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Pago no encontrado")
	}
	resp := mapPago(p)
	return &resp, nil
}

func (s *pagoService) Anular(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Pago no encontrado")
	}
	if p.Estado == model.EstadoPagoAnulado {
		return nil
	}
	p.Estado = model.EstadoPagoAnulado
	return s.repo.Update(ctx, p)
}

// SubirComprobante stores the receipt file and replaces any previous one.
func (s *pagoService) SubirComprobante(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*dto.PagoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Pago no encontrado")
	}
	url, err := s.storage.SaveFile(fh, dirComprobantes)
	if err != nil {
		return nil, archivoError(err)
	}
	anterior := p.Comprobante
	p.Comprobante = &url
	if err := s.repo.Update(ctx, p); err != nil {
		s.storage.Remove(url)
		return nil, err
	}
	if anterior != nil {
		s.storage.Remove(*anterior)
	}
	resp := mapPago(p)
	return &resp, nil
}

// Recibo renders the payment receipt as PDF and returns it with a filename.
func (s *pagoService) Recibo(ctx context.Context, id uuid.UUID) (*bytes.Buffer, string, error) {
	row, err := s.repo.Recibo(ctx, id)
	if err != nil {
		return nil, "", notFoundAs(err, "Pago no encontrado")
	}

	base := row.PrecioPlan
	if row.MontoPagado.Valid {
		base = row.MontoPagado.Decimal
	}
	desc := decimal.Zero
	if row.DescuentoAplicado.Valid {
		desc = row.DescuentoAplicado.Decimal
	}

	var buf bytes.Buffer
	err = infra.WriteReciboPDF(&buf, infra.ReciboPago{
		Gimnasio:     nombreGimnasio,
		Referencia:   row.Referencia,
		FechaPago:    row.FechaPago.In(s.loc),
		Cliente:      strings.TrimSpace(row.Nombre + " " + row.Apellido),
		Plan:         row.NombrePlan,
		Periodo:      row.FechaInicio.Format("02/01/2006") + " - " + row.FechaVencimiento.Format("02/01/2006"),
		MontoBase:    base,
		DescuentoPct: desc,
		Total:        row.Monto,
		MetodoPago:   row.MetodoPago,
		Anulado:      row.Estado == model.EstadoPagoAnulado,
	})
	if err != nil {
		return nil, "", err
	}
	return &buf, "recibo-" + row.Referencia + ".pdf", nil
}

// archivoError turns upload validation failures into 400s.
func archivoError(err error) error {
	switch {
	case errors.Is(err, infra.ErrArchivoMuyGrande),
		errors.Is(err, infra.ErrFormatoNoValido),
		errors.Is(err, infra.ErrImagenNoDecodable):
		return invalido(err.Error())
	}
	return err
}
