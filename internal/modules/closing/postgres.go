package closing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

const selectTransactions = `
	SELECT id, numero_de_cloture, date, point_de_vente, agent,
	       billet, vente_diverses, reajustement, xbag, penalite, remboursement,
	       especes, mobile, cb, virement, cheque,
	       total_hors_taxes, montant_de_la_taxe, total_ttc,
	       created_at, updated_at
	FROM transactions`

func (r *postgresRepo) Create(ctx context.Context, rec *Record) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions
		  (id, numero_de_cloture, date, point_de_vente, agent,
		   billet, vente_diverses, reajustement, xbag, penalite, remboursement,
		   especes, mobile, cb, virement, cheque,
		   total_hors_taxes, montant_de_la_taxe, total_ttc, created_at, updated_at)
		VALUES
		  (:id, :numero_de_cloture, :date, :point_de_vente, :agent,
		   :billet, :vente_diverses, :reajustement, :xbag, :penalite, :remboursement,
		   :especes, :mobile, :cb, :virement, :cheque,
		   :total_hors_taxes, :montant_de_la_taxe, :total_ttc, :created_at, :updated_at)`,
		toRow(rec))
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var row transactionRow
	if err := r.db.GetContext(ctx, &row, selectTransactions+` WHERE id=$1`, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	rec := row.toRecord()
	return &rec, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]Record, error) {
	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, selectTransactions+` ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, rec *Record) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE transactions SET
		  numero_de_cloture=:numero_de_cloture, date=:date, point_de_vente=:point_de_vente, agent=:agent,
		  billet=:billet, vente_diverses=:vente_diverses, reajustement=:reajustement, xbag=:xbag,
		  penalite=:penalite, remboursement=:remboursement,
		  especes=:especes, mobile=:mobile, cb=:cb, virement=:virement, cheque=:cheque,
		  total_hors_taxes=:total_hors_taxes, montant_de_la_taxe=:montant_de_la_taxe, total_ttc=:total_ttc,
		  updated_at=:updated_at
		WHERE id=:id`, toRow(rec))
	if err != nil {
		return err
	}
	return expectOneRow(res, rec.ID.String())
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ── row mapping ───────────────────────────────────────────────────────────────

type transactionRow struct {
	ID            uuid.UUID `db:"id"`
	ClosingNumber string    `db:"numero_de_cloture"`
	Date          time.Time `db:"date"`
	PointOfSale   string    `db:"point_de_vente"`
	Agent         string    `db:"agent"`

	Billet        decimal.Decimal `db:"billet"`
	VenteDiverses decimal.Decimal `db:"vente_diverses"`
	Reajustement  decimal.Decimal `db:"reajustement"`
	Xbag          decimal.Decimal `db:"xbag"`
	Penalite      decimal.Decimal `db:"penalite"`
	Remboursement decimal.Decimal `db:"remboursement"`

	Especes  decimal.Decimal `db:"especes"`
	Mobile   decimal.Decimal `db:"mobile"`
	CB       decimal.Decimal `db:"cb"`
	Virement decimal.Decimal `db:"virement"`
	Cheque   decimal.Decimal `db:"cheque"`

	TotalHorsTaxes  decimal.Decimal `db:"total_hors_taxes"`
	MontantDeLaTaxe decimal.Decimal `db:"montant_de_la_taxe"`
	TotalTTC        decimal.Decimal `db:"total_ttc"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toRow(rec *Record) transactionRow {
	return transactionRow{
		ID:              rec.ID,
		ClosingNumber:   rec.ClosingNumber,
		Date:            rec.Date.Time,
		PointOfSale:     string(rec.PointOfSale),
		Agent:           rec.Agent,
		Billet:          rec.Billet,
		VenteDiverses:   rec.VenteDiverses,
		Reajustement:    rec.Reajustement,
		Xbag:            rec.Xbag,
		Penalite:        rec.Penalite,
		Remboursement:   rec.Remboursement,
		Especes:         rec.Especes,
		Mobile:          rec.Mobile,
		CB:              rec.CB,
		Virement:        rec.Virement,
		Cheque:          rec.Cheque,
		TotalHorsTaxes:  rec.TotalHorsTaxes,
		MontantDeLaTaxe: rec.MontantDeLaTaxe,
		TotalTTC:        rec.TotalTTC,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func (row transactionRow) toRecord() Record {
	return Record{
		ID:              row.ID,
		ClosingNumber:   row.ClosingNumber,
		Date:            openapi_types.Date{Time: row.Date},
		PointOfSale:     PointOfSale(row.PointOfSale),
		Agent:           row.Agent,
		Billet:          row.Billet,
		VenteDiverses:   row.VenteDiverses,
		Reajustement:    row.Reajustement,
		Xbag:            row.Xbag,
		Penalite:        row.Penalite,
		Remboursement:   row.Remboursement,
		Especes:         row.Especes,
		Mobile:          row.Mobile,
		CB:              row.CB,
		Virement:        row.Virement,
		Cheque:          row.Cheque,
		TotalHorsTaxes:  row.TotalHorsTaxes,
		MontantDeLaTaxe: row.MontantDeLaTaxe,
		TotalTTC:        row.TotalTTC,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
