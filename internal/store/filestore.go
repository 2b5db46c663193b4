package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/plants"
)

const (
	// PlantsDir is the subdirectory under the data root holding one directory per plant.
	PlantsDir = "Plants"
	// SpeciesDir is the subdirectory under the data root holding one directory per species.
	SpeciesDir = "Species"
	// LogsDir holds the activity, growth and graveyard CSVs.
	LogsDir = "Logs"

	locationsFile  = "Locations.csv"
	activitiesFile = "Activities.csv"
	growthFile     = "Growth.csv"
	graveyardFile  = "Graveyard.csv"
)

var (
	locationsHeader  = []string{"name", "outside"}
	activitiesHeader = []string{"plant", "date", "activity", "note"}
	growthHeader     = []string{"plant", "date", "height", "width", "health", "note"}
	graveyardHeader  = []string{"name", "species", "planted", "died", "reason"}
)

// FileStore implements Store on a directory tree:
//
//	<root>/Plants/<PlantNameNoSpaces>/<PlantNameNoSpaces>.json
//	<root>/Species/<SpeciesName>/<SpeciesName>.json
//	<root>/Locations.csv
//	<root>/Logs/{Activities,Growth,Graveyard}.csv
//
// CSVs use ';' as delimiter and get a header row on creation.
type FileStore struct {
	root string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewFileStore creates a filesystem-backed store rooted at root, creating
// the directory structure if needed.
func NewFileStore(root string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{
		filepath.Join(root, PlantsDir),
		filepath.Join(root, SpeciesDir),
		filepath.Join(root, LogsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &plants.IOError{Detail: "creating " + dir, Err: err}
		}
	}
	return &FileStore{root: root, log: logger}, nil
}

// Root returns the data directory.
func (fs *FileStore) Root() string { return fs.root }

// Close is a no-op; the file store holds no open handles.
func (fs *FileStore) Close() error { return nil }

// --- Paths ---

// PlantDir returns the directory of a plant under root.
func PlantDir(root, plantName string) string {
	return filepath.Join(root, PlantsDir, plants.DirName(plantName))
}

func (fs *FileStore) plantPath(name string) string {
	dir := plants.DirName(name)
	return filepath.Join(fs.root, PlantsDir, dir, dir+".json")
}

func speciesDirName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}

func (fs *FileStore) speciesPath(name string) string {
	dir := speciesDirName(name)
	return filepath.Join(fs.root, SpeciesDir, dir, dir+".json")
}

func (fs *FileStore) locationsPath() string  { return filepath.Join(fs.root, locationsFile) }
func (fs *FileStore) activitiesPath() string { return filepath.Join(fs.root, LogsDir, activitiesFile) }
func (fs *FileStore) growthPath() string     { return filepath.Join(fs.root, LogsDir, growthFile) }
func (fs *FileStore) graveyardPath() string  { return filepath.Join(fs.root, LogsDir, graveyardFile) }

// --- JSON helpers ---

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &plants.IOError{Detail: "reading " + path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &plants.IOError{Detail: "parsing " + path, Err: err}
	}
	return true, nil
}

// writeJSON writes v to path through a temp file and rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &plants.IOError{Detail: "marshaling " + path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &plants.IOError{Detail: "creating directory for " + path, Err: err}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &plants.IOError{Detail: "writing " + tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &plants.IOError{Detail: "replacing " + path, Err: err}
	}
	return nil
}

// --- CSV helpers ---

// readCSV returns the data rows of a CSV, without its header.
// A missing file reads as empty.
func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &plants.IOError{Detail: "opening " + path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &plants.IOError{Detail: "parsing " + path, Err: err}
	}
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == header[0] {
		rows = rows[1:]
	}
	return rows, nil
}

func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// stageCSV writes the full file content next to path and returns the temp path.
func stageCSV(path string, header []string, rows [][]string) (string, error) {
	data, err := encodeCSV(header, rows)
	if err != nil {
		return "", &plants.IOError{Detail: "encoding " + path, Err: err}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", &plants.IOError{Detail: "writing " + tmp, Err: err}
	}
	return tmp, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	tmp, err := stageCSV(path, header, rows)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &plants.IOError{Detail: "replacing " + path, Err: err}
	}
	return nil
}

// appendCSV appends rows in a single write, creating the file with its header.
func appendCSV(path string, header []string, rows [][]string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = ';'
	if fresh {
		if err := w.Write(header); err != nil {
			return &plants.IOError{Detail: "encoding " + path, Err: err}
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return &plants.IOError{Detail: "encoding " + path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &plants.IOError{Detail: "opening " + path, Err: err}
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return &plants.IOError{Detail: "appending to " + path, Err: err}
	}
	return f.Close()
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringOpt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// --- Row codecs ---

func activityRow(a plants.Activity) []string {
	return []string{a.Plant, formatDate(a.Date), a.Activity, optString(a.Note)}
}

func parseActivityRow(row []string) (plants.Activity, error) {
	date, err := parseDate(field(row, 1))
	if err != nil {
		return plants.Activity{}, err
	}
	return plants.Activity{
		Plant:    field(row, 0),
		Date:     date,
		Activity: field(row, 2),
		Note:     stringOpt(field(row, 3)),
	}, nil
}

func growthRow(g plants.GrowthSample) []string {
	return []string{
		g.Plant,
		formatDate(g.Date),
		strconv.FormatFloat(g.Height, 'f', -1, 64),
		strconv.FormatFloat(g.Width, 'f', -1, 64),
		strconv.Itoa(g.Health),
		optString(g.Note),
	}
}

func parseGrowthRow(row []string) (plants.GrowthSample, error) {
	date, err := parseDate(field(row, 1))
	if err != nil {
		return plants.GrowthSample{}, err
	}
	height, err := strconv.ParseFloat(field(row, 2), 64)
	if err != nil {
		return plants.GrowthSample{}, err
	}
	width, err := strconv.ParseFloat(field(row, 3), 64)
	if err != nil {
		return plants.GrowthSample{}, err
	}
	health, err := strconv.Atoi(field(row, 4))
	if err != nil {
		return plants.GrowthSample{}, err
	}
	return plants.GrowthSample{
		Plant:  field(row, 0),
		Date:   date,
		Height: height,
		Width:  width,
		Health: health,
		Note:   stringOpt(field(row, 5)),
	}, nil
}

func graveyardRow(e plants.GraveyardEntry) []string {
	return []string{e.Name, e.Species, formatDate(e.Planted), formatDate(e.Died), e.Reason}
}

func parseGraveyardRow(row []string) (plants.GraveyardEntry, error) {
	planted, err := parseDate(field(row, 2))
	if err != nil {
		return plants.GraveyardEntry{}, err
	}
	died, err := parseDate(field(row, 3))
	if err != nil {
		return plants.GraveyardEntry{}, err
	}
	return plants.GraveyardEntry{
		Name:    field(row, 0),
		Species: field(row, 1),
		Planted: planted,
		Died:    died,
		Reason:  field(row, 4),
	}, nil
}

// --- Loaders (callers hold mu) ---

func (fs *FileStore) loadSpecies() (map[string]plants.Species, error) {
	out := map[string]plants.Species{}
	entries, err := os.ReadDir(filepath.Join(fs.root, SpeciesDir))
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, &plants.IOError{Detail: "reading species directory", Err: err}
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(fs.root, SpeciesDir, entry.Name(), entry.Name()+".json")
		var s plants.Species
		ok, err := readJSON(path, &s)
		if err != nil {
			fs.log.Warn("skipping unreadable species", zap.String("path", path), zap.Error(err))
			continue
		}
		if ok {
			out[s.Name] = s
		}
	}
	return out, nil
}

func (fs *FileStore) loadLocations() ([]plants.Location, error) {
	rows, err := readCSV(fs.locationsPath(), locationsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]plants.Location, 0, len(rows))
	for _, row := range rows {
		outside, err := strconv.ParseBool(field(row, 1))
		if err != nil {
			fs.log.Warn("skipping malformed location row", zap.Strings("row", row))
			continue
		}
		out = append(out, plants.Location{Name: field(row, 0), Outside: outside})
	}
	return out, nil
}

func (fs *FileStore) loadActivities() ([]plants.Activity, error) {
	rows, err := readCSV(fs.activitiesPath(), activitiesHeader)
	if err != nil {
		return nil, err
	}
	out := make([]plants.Activity, 0, len(rows))
	for _, row := range rows {
		a, err := parseActivityRow(row)
		if err != nil {
			fs.log.Warn("skipping malformed activity row", zap.Strings("row", row), zap.Error(err))
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (fs *FileStore) loadGrowth() ([]plants.GrowthSample, error) {
	rows, err := readCSV(fs.growthPath(), growthHeader)
	if err != nil {
		return nil, err
	}
	out := make([]plants.GrowthSample, 0, len(rows))
	for _, row := range rows {
		g, err := parseGrowthRow(row)
		if err != nil {
			fs.log.Warn("skipping malformed growth row", zap.Strings("row", row), zap.Error(err))
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (fs *FileStore) loadImages(plantName string) []plants.Image {
	dir := PlantDir(fs.root, plantName)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.jpg"))
	var out []plants.Image
	for _, m := range matches {
		base := filepath.Base(m)
		date, err := time.ParseInLocation("02012006", strings.TrimSuffix(base, ".jpg"), time.Local)
		if err != nil {
			continue
		}
		out = append(out, plants.Image{Date: date, FileName: base})
	}
	return out
}

func (fs *FileStore) loadPlantRecords() ([]plants.Plant, error) {
	entries, err := os.ReadDir(filepath.Join(fs.root, PlantsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &plants.IOError{Detail: "reading plants directory", Err: err}
	}
	var out []plants.Plant
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(fs.root, PlantsDir, entry.Name(), entry.Name()+".json")
		var p plants.Plant
		ok, err := readJSON(path, &p)
		if err != nil {
			fs.log.Warn("skipping unreadable plant", zap.String("path", path), zap.Error(err))
			continue
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// loadPlantRecord reads one plant JSON. The stored name must match exactly.
func (fs *FileStore) loadPlantRecord(name string) (*plants.Plant, error) {
	if plants.ValidatePlantName(name) != nil {
		return nil, &plants.NotFoundError{Kind: plants.KindPlant, Name: name}
	}
	var p plants.Plant
	ok, err := readJSON(fs.plantPath(name), &p)
	if err != nil {
		return nil, err
	}
	if !ok || p.Name != name {
		return nil, &plants.NotFoundError{Kind: plants.KindPlant, Name: name}
	}
	return &p, nil
}

// compose resolves references and attaches logs and images to each plant.
func (fs *FileStore) compose(records []plants.Plant) ([]plants.Plant, error) {
	species, err := fs.loadSpecies()
	if err != nil {
		return nil, err
	}
	locs, err := fs.loadLocations()
	if err != nil {
		return nil, err
	}
	locations := make(map[string]plants.Location, len(locs))
	for _, l := range locs {
		locations[l.Name] = l
	}
	activities, err := fs.loadActivities()
	if err != nil {
		return nil, err
	}
	growth, err := fs.loadGrowth()
	if err != nil {
		return nil, err
	}

	byPlantActivities := map[string][]plants.Activity{}
	for _, a := range activities {
		byPlantActivities[a.Plant] = append(byPlantActivities[a.Plant], a)
	}
	byPlantGrowth := map[string][]plants.GrowthSample{}
	for _, g := range growth {
		byPlantGrowth[g.Plant] = append(byPlantGrowth[g.Plant], g)
	}

	out := make([]plants.Plant, 0, len(records))
	for _, p := range records {
		resolveRefs(&p, species, locations)
		p.Activities = byPlantActivities[p.Name]
		p.Growth = byPlantGrowth[p.Name]
		sortActivities(p.Activities)
		sortGrowth(p.Growth)
		p.Images = fs.loadImages(p.Name)
		out = append(out, p)
	}
	sortPlants(out)
	return out, nil
}

func (fs *FileStore) plantExistsLocked(name string) (bool, error) {
	_, err := fs.loadPlantRecord(name)
	if err == nil {
		return true, nil
	}
	var nf *plants.NotFoundError
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, err
}

// --- Plants ---

// ListPlants returns every live plant, sorted by name.
func (fs *FileStore) ListPlants() ([]plants.Plant, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.loadPlantRecords()
	if err != nil {
		return nil, err
	}
	return fs.compose(records)
}

// GetPlant returns a plant by exact name.
func (fs *FileStore) GetPlant(name string) (*plants.Plant, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.loadPlantRecord(name)
	if err != nil {
		return nil, err
	}
	composed, err := fs.compose([]plants.Plant{*p})
	if err != nil {
		return nil, err
	}
	return &composed[0], nil
}

// PlantExists reports whether a live plant has exactly this name.
func (fs *FileStore) PlantExists(name string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.plantExistsLocked(name)
}

// CheckNewPlantName also refuses names that only differ by spaces from an
// existing plant, since both would use the same directory.
func (fs *FileStore) CheckNewPlantName(name string) error {
	if err := plants.ValidatePlantName(name); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var existing plants.Plant
	ok, err := readJSON(fs.plantPath(name), &existing)
	if err != nil {
		return err
	}
	if ok {
		return &plants.ConflictError{Kind: plants.KindPlant, Name: name}
	}
	return nil
}

// PlantsByLocation returns plants whose location reference names location.
func (fs *FileStore) PlantsByLocation(location string) ([]plants.Plant, error) {
	all, err := fs.ListPlants()
	if err != nil {
		return nil, err
	}
	return filterPlants(all, func(p plants.Plant) bool { return p.Location.Name == location }), nil
}

// PlantsBySpecies returns plants whose species reference names species.
func (fs *FileStore) PlantsBySpecies(species string) ([]plants.Plant, error) {
	all, err := fs.ListPlants()
	if err != nil {
		return nil, err
	}
	return filterPlants(all, func(p plants.Plant) bool { return p.Species.Name == species }), nil
}

// PutPlant creates or replaces a plant record. Logs and images are not
// part of the record and are left untouched.
func (fs *FileStore) PutPlant(p plants.Plant) error {
	if err := validatePlant(p); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var existing plants.Plant
	ok, err := readJSON(fs.plantPath(p.Name), &existing)
	if err != nil {
		return err
	}
	if ok && existing.Name != p.Name {
		// Two names that differ only by spaces share a directory.
		return &plants.ConflictError{Kind: plants.KindPlant, Name: p.Name}
	}
	if p.Notes == nil {
		p.Notes = []string{}
	}
	return writeJSON(fs.plantPath(p.Name), p)
}

// --- Species ---

// ListSpecies returns every species, sorted by name.
func (fs *FileStore) ListSpecies() ([]plants.Species, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	index, err := fs.loadSpecies()
	if err != nil {
		return nil, err
	}
	out := make([]plants.Species, 0, len(index))
	for _, s := range index {
		out = append(out, s)
	}
	sortSpecies(out)
	return out, nil
}

// GetSpecies returns a species by exact name.
func (fs *FileStore) GetSpecies(name string) (*plants.Species, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var s plants.Species
	ok, err := readJSON(fs.speciesPath(name), &s)
	if err != nil {
		return nil, err
	}
	if !ok || s.Name != name {
		return nil, &plants.NotFoundError{Kind: plants.KindSpecies, Name: name}
	}
	return &s, nil
}

// SpeciesExists reports whether a species has exactly this name.
func (fs *FileStore) SpeciesExists(name string) (bool, error) {
	_, err := fs.GetSpecies(name)
	if err == nil {
		return true, nil
	}
	var nf *plants.NotFoundError
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, err
}

// PutSpecies creates or replaces a species record.
func (fs *FileStore) PutSpecies(s plants.Species) error {
	if err := s.Validate(); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var existing plants.Species
	ok, err := readJSON(fs.speciesPath(s.Name), &existing)
	if err != nil {
		return err
	}
	if ok && existing.Name != s.Name {
		return &plants.ConflictError{Kind: plants.KindSpecies, Name: s.Name}
	}
	return writeJSON(fs.speciesPath(s.Name), s)
}

// --- Locations ---

// ListLocations returns every location in file order.
func (fs *FileStore) ListLocations() ([]plants.Location, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadLocations()
}

// GetLocation returns a location by exact name.
func (fs *FileStore) GetLocation(name string) (*plants.Location, error) {
	locs, err := fs.ListLocations()
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, &plants.NotFoundError{Kind: plants.KindLocation, Name: name}
}

// PutLocation creates or replaces a location row.
func (fs *FileStore) PutLocation(l plants.Location) error {
	if err := validateLocation(l); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	locs, err := fs.loadLocations()
	if err != nil {
		return err
	}
	replaced := false
	rows := make([][]string, 0, len(locs)+1)
	for _, existing := range locs {
		if existing.Name == l.Name {
			existing = l
			replaced = true
		}
		rows = append(rows, []string{existing.Name, strconv.FormatBool(existing.Outside)})
	}
	if !replaced {
		rows = append(rows, []string{l.Name, strconv.FormatBool(l.Outside)})
	}
	return writeCSV(fs.locationsPath(), locationsHeader, rows)
}

// --- Logs ---

// AppendActivities writes all activities in one append. Every activity must
// reference a live plant.
func (fs *FileStore) AppendActivities(activities []plants.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		ok, err := fs.plantExistsLocked(a.Plant)
		if err != nil {
			return err
		}
		if !ok {
			return &plants.NotFoundError{Kind: plants.KindPlant, Name: a.Plant}
		}
		rows = append(rows, activityRow(a))
	}
	return appendCSV(fs.activitiesPath(), activitiesHeader, rows)
}

// AppendGrowth writes all samples in one append. Orphans and out-of-range
// health values are rejected before anything is written.
func (fs *FileStore) AppendGrowth(samples []plants.GrowthSample) error {
	if len(samples) == 0 {
		return nil
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	rows := make([][]string, 0, len(samples))
	for _, g := range samples {
		if err := g.Validate(); err != nil {
			return err
		}
		ok, err := fs.plantExistsLocked(g.Plant)
		if err != nil {
			return err
		}
		if !ok {
			return &plants.NotFoundError{Kind: plants.KindPlant, Name: g.Plant}
		}
		rows = append(rows, growthRow(g))
	}
	return appendCSV(fs.growthPath(), growthHeader, rows)
}

// AddImage checks that the plant exists. The file itself is the record:
// images are discovered by scanning the plant directory on read.
func (fs *FileStore) AddImage(plant string, img plants.Image) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ok, err := fs.plantExistsLocked(plant)
	if err != nil {
		return err
	}
	if !ok {
		return &plants.NotFoundError{Kind: plants.KindPlant, Name: plant}
	}
	fs.log.Debug("image recorded", zap.String("plant", plant), zap.String("file", img.FileName))
	return nil
}

// --- Graveyard ---

// Graveyard returns every entry ordered by died date, then planted date.
func (fs *FileStore) Graveyard() ([]plants.GraveyardEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadGraveyard()
}

func (fs *FileStore) loadGraveyard() ([]plants.GraveyardEntry, error) {
	rows, err := readCSV(fs.graveyardPath(), graveyardHeader)
	if err != nil {
		return nil, err
	}
	out := make([]plants.GraveyardEntry, 0, len(rows))
	for _, row := range rows {
		e, err := parseGraveyardRow(row)
		if err != nil {
			fs.log.Warn("skipping malformed graveyard row", zap.Strings("row", row), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	plants.SortGraveyard(out)
	return out, nil
}

// stagedFile is a rewritten CSV waiting to be renamed over its target.
type stagedFile struct {
	target   string
	tmp      string
	header   []string
	original [][]string
}

// KillPlant prunes the plant, its activities and growth, and appends the
// graveyard entry. All new file contents are staged first; the commit phase
// is a sequence of renames, and a failed rename restores what was already
// replaced, so a failure leaves the tree as it was.
func (fs *FileStore) KillPlant(entry plants.GraveyardEntry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ok, err := fs.plantExistsLocked(entry.Name)
	if err != nil {
		return err
	}
	if !ok {
		return &plants.NotFoundError{Kind: plants.KindPlant, Name: entry.Name}
	}

	staged, err := fs.stageKill(entry)
	if err != nil {
		return err
	}
	cleanup := func() {
		for _, s := range staged {
			_ = os.Remove(s.tmp)
		}
	}

	plantPath := fs.plantPath(entry.Name)
	buried := plantPath + ".dead"
	if err := os.Rename(plantPath, buried); err != nil {
		cleanup()
		return &plants.IOError{Detail: "removing plant " + entry.Name, Err: err}
	}

	for i, s := range staged {
		if err := os.Rename(s.tmp, s.target); err != nil {
			fs.rollbackKill(staged[:i], plantPath, buried)
			cleanup()
			return &plants.IOError{Detail: "replacing " + s.target, Err: err}
		}
	}

	if err := os.Remove(buried); err != nil {
		fs.log.Warn("leftover plant file after kill", zap.String("path", buried), zap.Error(err))
	}
	// Photos stay; the directory goes only when nothing else is in it.
	_ = os.Remove(filepath.Dir(plantPath))

	fs.log.Info("plant moved to graveyard",
		zap.String("plant", entry.Name),
		zap.String("reason", entry.Reason),
	)
	return nil
}

func (fs *FileStore) stageKill(entry plants.GraveyardEntry) ([]stagedFile, error) {
	var staged []stagedFile
	fail := func(err error) ([]stagedFile, error) {
		for _, s := range staged {
			_ = os.Remove(s.tmp)
		}
		return nil, err
	}

	stage := func(path string, header []string, original, next [][]string) error {
		tmp, err := stageCSV(path, header, next)
		if err != nil {
			return err
		}
		staged = append(staged, stagedFile{target: path, tmp: tmp, header: header, original: original})
		return nil
	}

	prune := func(rows [][]string) [][]string {
		var kept [][]string
		for _, row := range rows {
			if field(row, 0) != entry.Name {
				kept = append(kept, row)
			}
		}
		return kept
	}

	actRows, err := readCSV(fs.activitiesPath(), activitiesHeader)
	if err != nil {
		return fail(err)
	}
	if err := stage(fs.activitiesPath(), activitiesHeader, actRows, prune(actRows)); err != nil {
		return fail(err)
	}

	growthRows, err := readCSV(fs.growthPath(), growthHeader)
	if err != nil {
		return fail(err)
	}
	if err := stage(fs.growthPath(), growthHeader, growthRows, prune(growthRows)); err != nil {
		return fail(err)
	}

	graveRows, err := readCSV(fs.graveyardPath(), graveyardHeader)
	if err != nil {
		return fail(err)
	}
	nextGrave := append(append([][]string{}, graveRows...), graveyardRow(entry))
	if err := stage(fs.graveyardPath(), graveyardHeader, graveRows, nextGrave); err != nil {
		return fail(err)
	}
	return staged, nil
}

func (fs *FileStore) rollbackKill(replaced []stagedFile, plantPath, buried string) {
	for _, s := range replaced {
		if err := writeCSV(s.target, s.header, s.original); err != nil {
			fs.log.Error("rollback failed", zap.String("path", s.target), zap.Error(err))
		}
	}
	if err := os.Rename(buried, plantPath); err != nil {
		fs.log.Error("rollback failed", zap.String("path", plantPath), zap.Error(err))
	}
}

// --- Name resolution ---

// ResolvePlantName returns the canonical name of the plant best matching fragment.
func (fs *FileStore) ResolvePlantName(fragment string) (string, error) {
	fs.mu.Lock()
	records, err := fs.loadPlantRecords()
	fs.mu.Unlock()
	if err != nil {
		return "", err
	}
	names := make([]string, len(records))
	for i, p := range records {
		names[i] = p.Name
	}
	if name, ok := bestMatch(names, fragment); ok {
		return name, nil
	}
	return "", &plants.NotFoundError{Kind: plants.KindPlant, Name: strings.TrimSpace(fragment)}
}

// ResolveSpeciesName returns the canonical name of the species best matching fragment.
func (fs *FileStore) ResolveSpeciesName(fragment string) (string, error) {
	fs.mu.Lock()
	index, err := fs.loadSpecies()
	fs.mu.Unlock()
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	if name, ok := bestMatch(names, fragment); ok {
		return name, nil
	}
	return "", &plants.NotFoundError{Kind: plants.KindSpecies, Name: strings.TrimSpace(fragment)}
}

// ResolveLocationName returns the canonical name of the location best matching fragment.
func (fs *FileStore) ResolveLocationName(fragment string) (string, error) {
	locs, err := fs.ListLocations()
	if err != nil {
		return "", err
	}
	names := make([]string, len(locs))
	for i, l := range locs {
		names[i] = l.Name
	}
	if name, ok := bestMatch(names, fragment); ok {
		return name, nil
	}
	return "", &plants.NotFoundError{Kind: plants.KindLocation, Name: strings.TrimSpace(fragment)}
}

// String implements fmt.Stringer for log fields.
func (fs *FileStore) String() string {
	return fmt.Sprintf("FileStore(%s)", fs.root)
}
