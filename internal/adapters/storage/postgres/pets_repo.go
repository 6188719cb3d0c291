package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
)

var ErrUnsupportedShape = errors.New("near query requires a point-shaped field")

const petColumns = `
	id, owner_user_id,
	name, species, breed, fur_color, eye_color,
	age, weight_value, weight_unit,
	phones, email, notes,
	is_lost, is_found,
	has_location, location_address, location_lng, location_lat,
	has_lost_details, lost_address, lost_lng, lost_lat, lost_date, lost_notes,
	has_found_details, found_address, found_lng, found_lat, found_date, found_notes,
	match_results,
	created_at, updated_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Store = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	args, err := petArgs(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,
		        $20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34)
	`, args...)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	args, err := petArgs(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updatePetSQL, updateArgs(args)...)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// updatePetSQL no toca match_results (de SetMatchResults/ClearReport/
// PullMatchResults) ni created_at.
const updatePetSQL = `
		UPDATE pets SET
			owner_user_id = $2,
			name = $3, species = $4, breed = $5, fur_color = $6, eye_color = $7,
			age = $8, weight_value = $9, weight_unit = $10,
			phones = $11, email = $12, notes = $13,
			is_lost = $14, is_found = $15,
			has_location = $16, location_address = $17, location_lng = $18, location_lat = $19,
			has_lost_details = $20, lost_address = $21, lost_lng = $22, lost_lat = $23, lost_date = $24, lost_notes = $25,
			has_found_details = $26, found_address = $27, found_lng = $28, found_lat = $29, found_date = $30, found_notes = $31,
			updated_at = $32
		WHERE id = $1
	`

// updateArgs recorta petArgs a los parámetros de updatePetSQL.
func updateArgs(args []any) []any {
	return append(args[:31:31], args[33])
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) Find(ctx context.Context, f pets.Filter, page pets.Page) ([]pets.Pet, error) {
	conds, args := buildWhere(f, 1)
	q := `SELECT ` + petColumns + ` FROM pets` + whereSQL(conds...) + ` ORDER BY created_at ASC, id ASC`

	if page.Limit > 0 {
		args = append(args, page.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Offset > 0 {
		args = append(args, page.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.query(ctx, q, args...)
}

func (r *PetsRepo) Count(ctx context.Context, f pets.Filter) (int, error) {
	conds, args := buildWhere(f, 1)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`+whereSQL(conds...), args...).Scan(&n)
	return n, err
}

func (r *PetsRepo) ClearReport(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET is_lost = false, is_found = false, match_results = '[]'::jsonb, updated_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PetsRepo) SetMatchResults(ctx context.Context, id string, results []pets.MatchResult, at time.Time) error {
	raw, err := encodeMatchResults(results)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets SET match_results = $2::jsonb, updated_at = $3 WHERE id = $1
	`, id, raw, at)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// PullMatchResults es un único UPDATE: filtra el array en SQL, sin leer filas.
func (r *PetsRepo) PullMatchResults(ctx context.Context, candidateID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pullMatchResultsSQL, candidateID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const pullMatchResultsSQL = `
	UPDATE pets
	SET match_results = COALESCE(
			(SELECT jsonb_agg(e) FROM jsonb_array_elements(match_results) AS e WHERE e->>'petId' <> $1),
			'[]'::jsonb),
		updated_at = $2
	WHERE match_results @> jsonb_build_array(jsonb_build_object('petId', $1::text))`

func (r *PetsRepo) NearPoint(ctx context.Context, field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) ([]pets.Pet, error) {
	q, args, err := nearPointQuery(field, center, maxMeters, f)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, q, args...)
}

func (r *PetsRepo) WithinCenterSphere(ctx context.Context, field pets.LocationField, center geo.Point, radians float64, f pets.Filter) ([]pets.Pet, error) {
	q, args, err := centerSphereQuery(field, center, radians, f)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, q, args...)
}

func nearPointQuery(field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) (string, []any, error) {
	col, ok := geographyColumns[field]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, field)
	}
	geoCond := fmt.Sprintf("ST_DWithin(%s, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)", col)
	conds, args := buildWhere(f, 4)

	q := `SELECT ` + petColumns + ` FROM pets` + whereSQL(append([]string{geoCond}, conds...)...)
	return q, append([]any{center.Lng, center.Lat, maxMeters}, args...), nil
}

// centerSphereQuery calcula la distancia angular (haversine sin R) sobre el par lng/lat.
func centerSphereQuery(field pets.LocationField, center geo.Point, radians float64, f pets.Filter) (string, []any, error) {
	cols, ok := pairColumns[field]
	if !ok {
		return "", nil, fmt.Errorf("unknown location field %s", field)
	}
	lng, lat := cols[0], cols[1]
	geoCond := fmt.Sprintf(`(%[1]s IS NOT NULL AND %[2]s IS NOT NULL AND NOT (%[1]s = 0 AND %[2]s = 0) AND
		2 * asin(least(1, sqrt(
			power(sin(radians(%[2]s - $2::float8) / 2), 2) +
			cos(radians($2::float8)) * cos(radians(%[2]s)) * power(sin(radians(%[1]s - $1::float8) / 2), 2)
		))) <= $3::float8)`, lng, lat)
	conds, args := buildWhere(f, 4)

	q := `SELECT ` + petColumns + ` FROM pets` + whereSQL(append([]string{geoCond}, conds...)...)
	return q, append([]any{center.Lng, center.Lat, radians}, args...), nil
}

var geographyColumns = map[pets.LocationField]string{
	pets.FieldBase:    "location_geo",
	pets.FieldFoundAt: "found_geo",
}

var pairColumns = map[pets.LocationField][2]string{
	pets.FieldBase:     {"location_lng", "location_lat"},
	pets.FieldLastSeen: {"lost_lng", "lost_lat"},
	pets.FieldFoundAt:  {"found_lng", "found_lat"},
}

// buildWhere arma las condiciones no-geo; startArg es el primer $n libre.
func buildWhere(f pets.Filter, startArg int) (conds []string, args []any) {
	argNum := startArg

	if f.OwnerUserID != "" {
		conds = append(conds, fmt.Sprintf("owner_user_id = $%d", argNum))
		args = append(args, f.OwnerUserID)
		argNum++
	}
	if f.Species != "" {
		conds = append(conds, fmt.Sprintf("species = $%d", argNum))
		args = append(args, string(f.Species))
		argNum++
	}
	switch f.Status {
	case pets.StatusLost:
		conds = append(conds, "is_lost")
	case pets.StatusFound:
		conds = append(conds, "is_found")
	case pets.StatusLostOrFound:
		conds = append(conds, "(is_lost OR is_found)")
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", argNum))
		args = append(args, "%"+escapeLike(q)+"%")
	}
	return conds, args
}

func whereSQL(conds ...string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type matchResultDoc struct {
	PetID     string    `json:"petId"`
	Score     int       `json:"score"`
	MatchedAt time.Time `json:"matchedAt"`
}

func encodeMatchResults(in []pets.MatchResult) (string, error) {
	docs := make([]matchResultDoc, 0, len(in))
	for _, m := range in {
		docs = append(docs, matchResultDoc{PetID: m.PetID, Score: m.Score, MatchedAt: m.MatchedAt})
	}
	b, err := json.Marshal(docs)
	return string(b), err
}

func decodeMatchResults(raw []byte) ([]pets.MatchResult, error) {
	var docs []matchResultDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("match_results: %w", err)
		}
	}
	out := make([]pets.MatchResult, 0, len(docs))
	for _, d := range docs {
		out = append(out, pets.MatchResult{PetID: d.PetID, Score: d.Score, MatchedAt: d.MatchedAt})
	}
	return out, nil
}

// petArgs sigue el orden de petColumns.
func petArgs(p pets.Pet) ([]any, error) {
	phones, err := json.Marshal(nonNil(p.Phones))
	if err != nil {
		return nil, err
	}
	matches, err := encodeMatchResults(p.MatchResults)
	if err != nil {
		return nil, err
	}

	var weightValue sql.NullFloat64
	var weightUnit sql.NullString
	if p.Weight != nil {
		weightValue = sql.NullFloat64{Float64: p.Weight.Value, Valid: true}
		weightUnit = sql.NullString{String: string(p.Weight.Unit), Valid: true}
	}

	base := placeCols(p.Location)

	var lost placeColumns
	var lostDate sql.NullTime
	var lostNotes string
	if p.LostDetails != nil {
		lost = placeCols(&p.LostDetails.LastSeen)
		lostDate = nullTime(p.LostDetails.Date)
		lostNotes = p.LostDetails.Notes
	}

	var found placeColumns
	var foundDate sql.NullTime
	var foundNotes string
	if p.FoundDetails != nil {
		found = placeCols(&p.FoundDetails.Location)
		foundDate = nullTime(p.FoundDetails.Date)
		foundNotes = p.FoundDetails.Notes
	}

	return []any{
		p.ID, p.OwnerUserID,
		p.Name, string(p.Species), p.Breed, p.FurColor, p.EyeColor,
		nullFloat(p.Age), weightValue, weightUnit,
		string(phones), p.Email, p.Notes,
		p.IsLost, p.IsFound,
		base.present, base.address, base.lng, base.lat,
		lost.present, lost.address, lost.lng, lost.lat, lostDate, lostNotes,
		found.present, found.address, found.lng, found.lat, foundDate, foundNotes,
		matches,
		p.CreatedAt, p.UpdatedAt,
	}, nil
}

type placeColumns struct {
	present bool
	address string
	lng     sql.NullFloat64
	lat     sql.NullFloat64
}

func placeCols(pl *pets.Place) placeColumns {
	if pl == nil {
		return placeColumns{}
	}
	c := placeColumns{present: true, address: pl.Address}
	if pl.Coordinates != nil {
		c.lng = sql.NullFloat64{Float64: pl.Coordinates.Lng, Valid: true}
		c.lat = sql.NullFloat64{Float64: pl.Coordinates.Lat, Valid: true}
	}
	return c
}

func (c placeColumns) toPlace() pets.Place {
	pl := pets.Place{Address: c.address}
	if c.lng.Valid && c.lat.Valid {
		pl.Coordinates = &geo.Point{Lng: c.lng.Float64, Lat: c.lat.Float64}
	}
	return pl
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p                     pets.Pet
		species               string
		age                   sql.NullFloat64
		weightValue           sql.NullFloat64
		weightUnit            sql.NullString
		phones, matches       []byte
		base, lost, found     placeColumns
		lostDate, foundDate   sql.NullTime
		lostNotes, foundNotes string
	)

	if err := s.Scan(
		&p.ID, &p.OwnerUserID,
		&p.Name, &species, &p.Breed, &p.FurColor, &p.EyeColor,
		&age, &weightValue, &weightUnit,
		&phones, &p.Email, &p.Notes,
		&p.IsLost, &p.IsFound,
		&base.present, &base.address, &base.lng, &base.lat,
		&lost.present, &lost.address, &lost.lng, &lost.lat, &lostDate, &lostNotes,
		&found.present, &found.address, &found.lng, &found.lat, &foundDate, &foundNotes,
		&matches,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Species = pets.Species(species)
	if age.Valid {
		a := age.Float64
		p.Age = &a
	}
	if weightValue.Valid {
		p.Weight = &pets.Weight{Value: weightValue.Float64, Unit: pets.WeightUnit(weightUnit.String)}
	}
	if len(phones) > 0 {
		if err := json.Unmarshal(phones, &p.Phones); err != nil {
			return pets.Pet{}, fmt.Errorf("phones: %w", err)
		}
	}
	if base.present {
		pl := base.toPlace()
		p.Location = &pl
	}
	if lost.present {
		p.LostDetails = &pets.LostDetails{LastSeen: lost.toPlace(), Date: timePtr(lostDate), Notes: lostNotes}
	}
	if found.present {
		p.FoundDetails = &pets.FoundDetails{Location: found.toPlace(), Date: timePtr(foundDate), Notes: foundNotes}
	}

	mr, err := decodeMatchResults(matches)
	if err != nil {
		return pets.Pet{}, err
	}
	p.MatchResults = mr
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
