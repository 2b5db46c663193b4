package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/plantbot/internal/plants"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLStore implements Store on an embedded SQLite database.
type SQLStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLStore opens (or creates) the database at path and migrates it.
func NewSQLStore(path string, logger *zap.Logger) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ioError("create data dir", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, ioError("open database", err)
	}
	// One writer at a time; SQLite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, ioError(fmt.Sprintf("pragma %q", p), err)
		}
	}

	s := newSQLStoreWithDB(db, logger)
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, ioError("migration", err)
	}
	return s, nil
}

// newSQLStoreWithDB wraps an already-open, already-migrated database.
func newSQLStoreWithDB(db *sql.DB, logger *zap.Logger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{db: db, log: logger}
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS species (
			name                 TEXT PRIMARY KEY,
			scientific_name      TEXT NOT NULL DEFAULT '',
			genus                TEXT NOT NULL DEFAULT '',
			family               TEXT NOT NULL DEFAULT '',
			sunlight             TEXT NOT NULL,
			temp_min             REAL NOT NULL,
			temp_max             REAL NOT NULL,
			opt_temp_min         REAL NOT NULL,
			opt_temp_max         REAL NOT NULL,
			planting_distance    REAL,
			ph_min               REAL NOT NULL,
			ph_max               REAL NOT NULL,
			avg_watering_days    INTEGER,
			watering_notes       TEXT NOT NULL DEFAULT '[]',
			avg_fertilizing_days INTEGER,
			fertilizing_notes    TEXT NOT NULL DEFAULT '[]',
			pruning_notes        TEXT NOT NULL DEFAULT '[]',
			companions           TEXT NOT NULL DEFAULT '[]',
			additional_notes     TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS locations (
			name    TEXT PRIMARY KEY,
			outside INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS plants (
			name       TEXT PRIMARY KEY,
			species    TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			origin     TEXT NOT NULL DEFAULT '',
			obtained   TEXT NOT NULL,
			auto_water INTEGER NOT NULL DEFAULT 0,
			notes      TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS activities (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			plant    TEXT NOT NULL REFERENCES plants(name),
			date     TEXT NOT NULL,
			activity TEXT NOT NULL,
			note     TEXT
		);

		CREATE TABLE IF NOT EXISTS growth (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			plant  TEXT NOT NULL REFERENCES plants(name),
			date   TEXT NOT NULL,
			height REAL NOT NULL,
			width  REAL NOT NULL,
			health INTEGER NOT NULL CHECK (health BETWEEN 0 AND 5),
			note   TEXT
		);

		CREATE TABLE IF NOT EXISTS images (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			plant     TEXT NOT NULL REFERENCES plants(name),
			date      TEXT NOT NULL,
			file_name TEXT NOT NULL,
			UNIQUE (plant, file_name)
		);

		CREATE TABLE IF NOT EXISTS graveyard (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT NOT NULL,
			species TEXT NOT NULL DEFAULT '',
			planted TEXT NOT NULL,
			died    TEXT NOT NULL,
			reason  TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_activities_plant ON activities(plant);
		CREATE INDEX IF NOT EXISTS idx_growth_plant ON growth(plant);
		CREATE INDEX IF NOT EXISTS idx_images_plant ON images(plant);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- Encoding helpers ---

func encodeNotes(notes []string) string {
	if notes == nil {
		notes = []string{}
	}
	data, _ := json.Marshal(notes)
	return string(data)
}

func decodeNotes(text string) []string {
	var notes []string
	if err := json.Unmarshal([]byte(text), &notes); err != nil || len(notes) == 0 {
		return nil
	}
	return notes
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	str := v.String
	return &str
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type rowScanner interface {
	Scan(dest ...any) error
}

// --- Species ---

const speciesColumns = `name, scientific_name, genus, family, sunlight,
	temp_min, temp_max, opt_temp_min, opt_temp_max, planting_distance,
	ph_min, ph_max, avg_watering_days, watering_notes, avg_fertilizing_days,
	fertilizing_notes, pruning_notes, companions, additional_notes`

func scanSpecies(row rowScanner) (plants.Species, error) {
	var (
		sp                                             plants.Species
		sunlight                                       string
		distance                                       sql.NullFloat64
		waterDays, fertDays                            sql.NullInt64
		waterNotes, fertNotes, pruneNotes, comp, addtl string
	)
	err := row.Scan(&sp.Name, &sp.ScientificName, &sp.Genus, &sp.Family, &sunlight,
		&sp.TempMin, &sp.TempMax, &sp.OptTempMin, &sp.OptTempMax, &distance,
		&sp.PHMin, &sp.PHMax, &waterDays, &waterNotes, &fertDays,
		&fertNotes, &pruneNotes, &comp, &addtl)
	if err != nil {
		return plants.Species{}, err
	}
	sp.Sunlight = plants.Sunlight(sunlight)
	sp.PlantingDistance = fromNullFloat(distance)
	sp.AvgWateringDays = fromNullInt(waterDays)
	sp.AvgFertilizingDays = fromNullInt(fertDays)
	sp.WateringNotes = decodeNotes(waterNotes)
	sp.FertilizingNotes = decodeNotes(fertNotes)
	sp.PruningNotes = decodeNotes(pruneNotes)
	sp.Companions = decodeNotes(comp)
	sp.AdditionalNotes = decodeNotes(addtl)
	return sp, nil
}

// ListSpecies returns every species, sorted by name.
func (s *SQLStore) ListSpecies() ([]plants.Species, error) {
	rows, err := s.db.Query("SELECT " + speciesColumns + " FROM species ORDER BY name")
	if err != nil {
		return nil, ioError("list species", err)
	}
	defer rows.Close()

	var out []plants.Species
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, ioError("scan species", err)
		}
		out = append(out, sp)
	}
	return out, rowsErr(rows)
}

// GetSpecies returns a species by exact name.
func (s *SQLStore) GetSpecies(name string) (*plants.Species, error) {
	row := s.db.QueryRow("SELECT "+speciesColumns+" FROM species WHERE name = ?", name)
	sp, err := scanSpecies(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &plants.NotFoundError{Kind: plants.KindSpecies, Name: name}
	}
	if err != nil {
		return nil, ioError("get species", err)
	}
	return &sp, nil
}

// SpeciesExists reports whether a species has exactly this name.
func (s *SQLStore) SpeciesExists(name string) (bool, error) {
	return s.exists("SELECT 1 FROM species WHERE name = ?", name)
}

// PutSpecies creates or replaces a species record.
func (s *SQLStore) PutSpecies(sp plants.Species) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO species (`+speciesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			scientific_name = excluded.scientific_name,
			genus = excluded.genus,
			family = excluded.family,
			sunlight = excluded.sunlight,
			temp_min = excluded.temp_min,
			temp_max = excluded.temp_max,
			opt_temp_min = excluded.opt_temp_min,
			opt_temp_max = excluded.opt_temp_max,
			planting_distance = excluded.planting_distance,
			ph_min = excluded.ph_min,
			ph_max = excluded.ph_max,
			avg_watering_days = excluded.avg_watering_days,
			watering_notes = excluded.watering_notes,
			avg_fertilizing_days = excluded.avg_fertilizing_days,
			fertilizing_notes = excluded.fertilizing_notes,
			pruning_notes = excluded.pruning_notes,
			companions = excluded.companions,
			additional_notes = excluded.additional_notes`,
		sp.Name, sp.ScientificName, sp.Genus, sp.Family, string(sp.Sunlight),
		sp.TempMin, sp.TempMax, sp.OptTempMin, sp.OptTempMax, nullFloat(sp.PlantingDistance),
		sp.PHMin, sp.PHMax, nullInt(sp.AvgWateringDays), encodeNotes(sp.WateringNotes), nullInt(sp.AvgFertilizingDays),
		encodeNotes(sp.FertilizingNotes), encodeNotes(sp.PruningNotes), encodeNotes(sp.Companions), encodeNotes(sp.AdditionalNotes),
	)
	if err != nil {
		return ioError("put species", err)
	}
	return nil
}

func (s *SQLStore) speciesIndex() (map[string]plants.Species, error) {
	list, err := s.ListSpecies()
	if err != nil {
		return nil, err
	}
	out := make(map[string]plants.Species, len(list))
	for _, sp := range list {
		out[sp.Name] = sp
	}
	return out, nil
}

// --- Locations ---

// ListLocations returns every location in insertion order.
func (s *SQLStore) ListLocations() ([]plants.Location, error) {
	rows, err := s.db.Query("SELECT name, outside FROM locations ORDER BY rowid")
	if err != nil {
		return nil, ioError("list locations", err)
	}
	defer rows.Close()

	var out []plants.Location
	for rows.Next() {
		var l plants.Location
		if err := rows.Scan(&l.Name, &l.Outside); err != nil {
			return nil, ioError("scan location", err)
		}
		out = append(out, l)
	}
	return out, rowsErr(rows)
}

// GetLocation returns a location by exact name.
func (s *SQLStore) GetLocation(name string) (*plants.Location, error) {
	var l plants.Location
	err := s.db.QueryRow("SELECT name, outside FROM locations WHERE name = ?", name).Scan(&l.Name, &l.Outside)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &plants.NotFoundError{Kind: plants.KindLocation, Name: name}
	}
	if err != nil {
		return nil, ioError("get location", err)
	}
	return &l, nil
}

// PutLocation creates or replaces a location.
func (s *SQLStore) PutLocation(l plants.Location) error {
	if err := validateLocation(l); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO locations (name, outside) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET outside = excluded.outside`,
		l.Name, boolInt(l.Outside),
	)
	if err != nil {
		return ioError("put location", err)
	}
	return nil
}

func (s *SQLStore) locationIndex() (map[string]plants.Location, error) {
	list, err := s.ListLocations()
	if err != nil {
		return nil, err
	}
	out := make(map[string]plants.Location, len(list))
	for _, l := range list {
		out[l.Name] = l
	}
	return out, nil
}

// --- Plants ---

const plantColumns = "name, species, location, origin, obtained, auto_water, notes"

func scanPlant(row rowScanner) (plants.Plant, error) {
	var (
		p                 plants.Plant
		species, location string
		obtained, notes   string
	)
	if err := row.Scan(&p.Name, &species, &location, &p.Origin, &obtained, &p.AutoWater, &notes); err != nil {
		return plants.Plant{}, err
	}
	date, err := parseDate(obtained)
	if err != nil {
		return plants.Plant{}, ioError(fmt.Sprintf("obtained date %q", obtained), err)
	}
	p.Obtained = date
	p.Species = plants.Dangling[plants.Species](species)
	p.Location = plants.Dangling[plants.Location](location)
	p.Notes = decodeNotes(notes)
	return p, nil
}

func (s *SQLStore) queryPlants(where string, args ...any) ([]plants.Plant, error) {
	rows, err := s.db.Query("SELECT "+plantColumns+" FROM plants "+where+" ORDER BY name", args...)
	if err != nil {
		return nil, ioError("list plants", err)
	}
	defer rows.Close()

	var out []plants.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, ioError("scan plant", err)
		}
		out = append(out, p)
	}
	if err := rowsErr(rows); err != nil {
		return nil, err
	}
	return s.compose(out)
}

// compose resolves references and attaches logs and images.
func (s *SQLStore) compose(records []plants.Plant) ([]plants.Plant, error) {
	if len(records) == 0 {
		return records, nil
	}
	species, err := s.speciesIndex()
	if err != nil {
		return nil, err
	}
	locations, err := s.locationIndex()
	if err != nil {
		return nil, err
	}
	for i := range records {
		p := &records[i]
		resolveRefs(p, species, locations)
		if p.Activities, err = s.activitiesFor(p.Name); err != nil {
			return nil, err
		}
		if p.Growth, err = s.growthFor(p.Name); err != nil {
			return nil, err
		}
		if p.Images, err = s.imagesFor(p.Name); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *SQLStore) activitiesFor(plant string) ([]plants.Activity, error) {
	rows, err := s.db.Query("SELECT plant, date, activity, note FROM activities WHERE plant = ? ORDER BY date, id", plant)
	if err != nil {
		return nil, ioError("activities", err)
	}
	defer rows.Close()

	var out []plants.Activity
	for rows.Next() {
		var (
			a    plants.Activity
			date string
			note sql.NullString
		)
		if err := rows.Scan(&a.Plant, &date, &a.Activity, &note); err != nil {
			return nil, ioError("scan activity", err)
		}
		if a.Date, err = parseDate(date); err != nil {
			return nil, ioError(fmt.Sprintf("activity date %q", date), err)
		}
		a.Note = fromNullString(note)
		out = append(out, a)
	}
	return out, rowsErr(rows)
}

func (s *SQLStore) growthFor(plant string) ([]plants.GrowthSample, error) {
	rows, err := s.db.Query("SELECT plant, date, height, width, health, note FROM growth WHERE plant = ? ORDER BY date, id", plant)
	if err != nil {
		return nil, ioError("growth", err)
	}
	defer rows.Close()

	var out []plants.GrowthSample
	for rows.Next() {
		var (
			g    plants.GrowthSample
			date string
			note sql.NullString
		)
		if err := rows.Scan(&g.Plant, &date, &g.Height, &g.Width, &g.Health, &note); err != nil {
			return nil, ioError("scan growth", err)
		}
		if g.Date, err = parseDate(date); err != nil {
			return nil, ioError(fmt.Sprintf("growth date %q", date), err)
		}
		g.Note = fromNullString(note)
		out = append(out, g)
	}
	return out, rowsErr(rows)
}

func (s *SQLStore) imagesFor(plant string) ([]plants.Image, error) {
	rows, err := s.db.Query("SELECT date, file_name FROM images WHERE plant = ? ORDER BY date, id", plant)
	if err != nil {
		return nil, ioError("images", err)
	}
	defer rows.Close()

	var out []plants.Image
	for rows.Next() {
		var (
			img  plants.Image
			date string
		)
		if err := rows.Scan(&date, &img.FileName); err != nil {
			return nil, ioError("scan image", err)
		}
		if img.Date, err = parseDate(date); err != nil {
			return nil, ioError(fmt.Sprintf("image date %q", date), err)
		}
		out = append(out, img)
	}
	return out, rowsErr(rows)
}

// ListPlants returns every live plant, sorted by name.
func (s *SQLStore) ListPlants() ([]plants.Plant, error) {
	return s.queryPlants("")
}

// GetPlant returns a plant by exact name.
func (s *SQLStore) GetPlant(name string) (*plants.Plant, error) {
	ps, err := s.queryPlants("WHERE name = ?", name)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, &plants.NotFoundError{Kind: plants.KindPlant, Name: name}
	}
	return &ps[0], nil
}

// PlantExists reports whether a live plant has exactly this name.
func (s *SQLStore) PlantExists(name string) (bool, error) {
	return s.exists("SELECT 1 FROM plants WHERE name = ?", name)
}

// CheckNewPlantName reports whether name can be used for a new plant.
func (s *SQLStore) CheckNewPlantName(name string) error {
	if err := plants.ValidatePlantName(name); err != nil {
		return err
	}
	exists, err := s.PlantExists(name)
	if err != nil {
		return err
	}
	if exists {
		return &plants.ConflictError{Kind: plants.KindPlant, Name: name}
	}
	return nil
}

// PlantsByLocation returns plants whose location reference names location.
func (s *SQLStore) PlantsByLocation(location string) ([]plants.Plant, error) {
	return s.queryPlants("WHERE location = ?", location)
}

// PlantsBySpecies returns plants whose species reference names species.
func (s *SQLStore) PlantsBySpecies(species string) ([]plants.Plant, error) {
	return s.queryPlants("WHERE species = ?", species)
}

// PutPlant creates or replaces a plant record. The upsert keeps the row in
// place so logs referencing it stay valid.
func (s *SQLStore) PutPlant(p plants.Plant) error {
	if err := validatePlant(p); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO plants (`+plantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			species = excluded.species,
			location = excluded.location,
			origin = excluded.origin,
			obtained = excluded.obtained,
			auto_water = excluded.auto_water,
			notes = excluded.notes`,
		p.Name, p.Species.Name, p.Location.Name, p.Origin, formatDate(p.Obtained), boolInt(p.AutoWater), encodeNotes(p.Notes),
	)
	if err != nil {
		return ioError("put plant", err)
	}
	return nil
}

// --- Logs ---

func (s *SQLStore) exists(query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, ioError("exists", err)
	}
	return true, nil
}

// ioError marks a database failure as a storage error.
func ioError(detail string, err error) error {
	return &plants.IOError{Detail: "store: " + detail, Err: err}
}

func rowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return ioError("read rows", err)
	}
	return nil
}

func commitTx(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return ioError("commit", err)
	}
	return nil
}

func txPlantExists(tx *sql.Tx, name string) error {
	var one int
	err := tx.QueryRow("SELECT 1 FROM plants WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &plants.NotFoundError{Kind: plants.KindPlant, Name: name}
	}
	if err != nil {
		return ioError("check plant", err)
	}
	return nil
}

// AppendActivities inserts all activities in one transaction.
func (s *SQLStore) AppendActivities(activities []plants.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return ioError("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, a := range activities {
		if err := txPlantExists(tx, a.Plant); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO activities (plant, date, activity, note) VALUES (?, ?, ?, ?)",
			a.Plant, formatDate(a.Date), a.Activity, nullString(a.Note),
		); err != nil {
			return ioError("insert activity", err)
		}
	}
	return commitTx(tx)
}

// AppendGrowth inserts all samples in one transaction.
func (s *SQLStore) AppendGrowth(samples []plants.GrowthSample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, g := range samples {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return ioError("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, g := range samples {
		if err := txPlantExists(tx, g.Plant); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO growth (plant, date, height, width, health, note) VALUES (?, ?, ?, ?, ?, ?)",
			g.Plant, formatDate(g.Date), g.Height, g.Width, g.Health, nullString(g.Note),
		); err != nil {
			return ioError("insert growth", err)
		}
	}
	return commitTx(tx)
}

// AddImage records an image file for a plant. Recording the same file twice
// is a no-op.
func (s *SQLStore) AddImage(plant string, img plants.Image) error {
	tx, err := s.db.Begin()
	if err != nil {
		return ioError("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := txPlantExists(tx, plant); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO images (plant, date, file_name) VALUES (?, ?, ?) ON CONFLICT(plant, file_name) DO NOTHING",
		plant, formatDate(img.Date), img.FileName,
	); err != nil {
		return ioError("insert image", err)
	}
	return commitTx(tx)
}

// --- Graveyard ---

// KillPlant deletes the plant with its logs and image rows and appends the
// graveyard entry in a single transaction.
func (s *SQLStore) KillPlant(entry plants.GraveyardEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return ioError("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := txPlantExists(tx, entry.Name); err != nil {
		return err
	}
	for _, stmt := range []string{
		"DELETE FROM activities WHERE plant = ?",
		"DELETE FROM growth WHERE plant = ?",
		"DELETE FROM images WHERE plant = ?",
		"DELETE FROM plants WHERE name = ?",
	} {
		if _, err := tx.Exec(stmt, entry.Name); err != nil {
			return ioError("kill plant", err)
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO graveyard (name, species, planted, died, reason) VALUES (?, ?, ?, ?, ?)",
		entry.Name, entry.Species, formatDate(entry.Planted), formatDate(entry.Died), entry.Reason,
	); err != nil {
		return ioError("insert graveyard", err)
	}
	if err := commitTx(tx); err != nil {
		return err
	}

	s.log.Info("plant moved to graveyard",
		zap.String("plant", entry.Name),
		zap.String("reason", entry.Reason),
	)
	return nil
}

// Graveyard returns every entry ordered by died date, then planted date.
func (s *SQLStore) Graveyard() ([]plants.GraveyardEntry, error) {
	rows, err := s.db.Query("SELECT name, species, planted, died, reason FROM graveyard ORDER BY died, planted, id")
	if err != nil {
		return nil, ioError("graveyard", err)
	}
	defer rows.Close()

	var out []plants.GraveyardEntry
	for rows.Next() {
		var (
			e             plants.GraveyardEntry
			planted, died string
		)
		if err := rows.Scan(&e.Name, &e.Species, &planted, &died, &e.Reason); err != nil {
			return nil, ioError("scan graveyard", err)
		}
		if e.Planted, err = parseDate(planted); err != nil {
			return nil, ioError(fmt.Sprintf("planted date %q", planted), err)
		}
		if e.Died, err = parseDate(died); err != nil {
			return nil, ioError(fmt.Sprintf("died date %q", died), err)
		}
		out = append(out, e)
	}
	return out, rowsErr(rows)
}

// --- Name resolution ---

func (s *SQLStore) names(table string) ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM " + table)
	if err != nil {
		return nil, ioError(fmt.Sprintf("list %s names", table), err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, ioError("scan name", err)
		}
		out = append(out, name)
	}
	return out, rowsErr(rows)
}

func (s *SQLStore) resolve(table, kind, fragment string) (string, error) {
	names, err := s.names(table)
	if err != nil {
		return "", err
	}
	if name, ok := bestMatch(names, fragment); ok {
		return name, nil
	}
	return "", &plants.NotFoundError{Kind: kind, Name: strings.TrimSpace(fragment)}
}

// ResolvePlantName returns the canonical name of the plant best matching fragment.
func (s *SQLStore) ResolvePlantName(fragment string) (string, error) {
	return s.resolve("plants", plants.KindPlant, fragment)
}

// ResolveSpeciesName returns the canonical name of the species best matching fragment.
func (s *SQLStore) ResolveSpeciesName(fragment string) (string, error) {
	return s.resolve("species", plants.KindSpecies, fragment)
}

// ResolveLocationName returns the canonical name of the location best matching fragment.
func (s *SQLStore) ResolveLocationName(fragment string) (string, error) {
	return s.resolve("locations", plants.KindLocation, fragment)
}
