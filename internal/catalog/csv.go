package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/squad-builder/internal/types"
)

// requiredColumns must be present and non-null for a row to be kept.
// Goalkeepers are exempt from the outfield stats.
var requiredColumns = []string{"overall", "player_positions", "wage_eur"}

var outfieldColumns = []string{"pace", "shooting", "passing", "dribbling", "defending", "physic"}

// CleanStats summarizes one cleaning pass.
type CleanStats struct {
	Rows         int
	OtherVersion int
	Incomplete   int
	Unmappable   int
	Kept         int
}

// header indexes column positions by lower-cased name.
type header map[string]int

func (h header) get(record []string, names ...string) string {
	for _, name := range names {
		if i, ok := h[name]; ok && i < len(record) {
			if v := strings.TrimSpace(record[i]); !isNull(v) {
				return v
			}
		}
	}
	return ""
}

func (h header) int(record []string, names ...string) int {
	v := h.get(record, names...)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

func (h header) float(record []string, names ...string) float64 {
	v := h.get(record, names...)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func isNull(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "null", "none", "na":
		return true
	}
	return false
}

// ParseCSV reads a raw player export, keeps rows of the given dataset version
// and drops incomplete or unmappable rows. When the export has no
// fifa_version column every row is considered.
func ParseCSV(r io.Reader, version int) ([]types.Player, CleanStats, error) {
	var stats CleanStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("empty player export")
		}
		return nil, stats, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(first))
	for i, name := range first {
		h[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			return nil, stats, fmt.Errorf("missing required column %q", col)
		}
	}
	if _, ok := h["short_name"]; !ok {
		if _, ok := h["long_name"]; !ok {
			return nil, stats, fmt.Errorf("missing name column")
		}
	}
	_, versioned := h["fifa_version"]

	var players []types.Player
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		if versioned && h.int(record, "fifa_version") != version {
			stats.OtherVersion++
			continue
		}
		p, ok, mappable := parseRow(h, record)
		if !mappable {
			stats.Unmappable++
			continue
		}
		if !ok {
			stats.Incomplete++
			continue
		}
		players = append(players, p)
	}
	stats.Kept = len(players)
	return players, stats, nil
}

// parseRow converts one record. ok is false when a required value is null;
// mappable is false when no listed role maps to a category.
func parseRow(h header, rec []string) (p types.Player, ok bool, mappable bool) {
	roles := types.ParseRoles(h.get(rec, "player_positions"))
	var cat types.Category
	for _, r := range roles {
		if c, found := types.ParseCategory(r); found {
			cat = c
			mappable = true
			break
		}
	}
	if len(roles) == 0 {
		// Missing positions is an incomplete row, not an unknown role.
		return p, false, true
	}
	if !mappable {
		return p, false, false
	}

	for _, col := range requiredColumns {
		if h.get(rec, col) == "" {
			return p, false, true
		}
	}
	if cat != types.CategoryGK {
		for _, col := range outfieldColumns {
			if h.get(rec, col) == "" {
				return p, false, true
			}
		}
	}

	p = types.Player{
		ShortName: h.get(rec, "short_name"),
		LongName:  h.get(rec, "long_name"),
		Category:  cat,
		Roles:     roles,
		Overall:   h.int(rec, "overall"),
		Potential: h.int(rec, "potential"),
		Pace:      h.int(rec, "pace"),
		Shooting:  h.int(rec, "shooting"),
		Passing:   h.int(rec, "passing"),
		Dribbling: h.int(rec, "dribbling"),
		Defending: h.int(rec, "defending"),
		Physic:    h.int(rec, "physic"),
		Goalkeeping: types.GoalkeeperStats{
			Diving:      h.int(rec, "goalkeeping_diving", "gk_diving"),
			Handling:    h.int(rec, "goalkeeping_handling", "gk_handling"),
			Kicking:     h.int(rec, "goalkeeping_kicking", "gk_kicking"),
			Positioning: h.int(rec, "goalkeeping_positioning", "gk_positioning"),
			Reflexes:    h.int(rec, "goalkeeping_reflexes", "gk_reflexes"),
			Speed:       h.int(rec, "goalkeeping_speed", "gk_speed"),
		},
		Age:         h.int(rec, "age"),
		ValueEUR:    h.float(rec, "value_eur"),
		WageEUR:     h.float(rec, "wage_eur"),
		HeightCM:    h.int(rec, "height_cm"),
		WeightKG:    h.int(rec, "weight_kg"),
		Foot:        h.get(rec, "preferred_foot"),
		WorkRate:    h.get(rec, "work_rate"),
		Reputation:  h.int(rec, "international_reputation"),
		SkillMoves:  h.int(rec, "skill_moves"),
		WeakFoot:    h.int(rec, "weak_foot"),
		Nationality: h.get(rec, "nationality_name", "nationality"),
		Club:        h.get(rec, "club_name", "club"),
	}
	if p.ShortName == "" {
		p.ShortName = p.LongName
	}
	return p, true, true
}

// cleanedColumns is the layout written by WriteCSV and accepted back by ParseCSV.
var cleanedColumns = []string{
	"short_name", "long_name", "player_positions", "category", "overall", "potential",
	"pace", "shooting", "passing", "dribbling", "defending", "physic",
	"goalkeeping_diving", "goalkeeping_handling", "goalkeeping_kicking",
	"goalkeeping_positioning", "goalkeeping_reflexes", "goalkeeping_speed",
	"age", "value_eur", "wage_eur", "height_cm", "weight_kg", "preferred_foot",
	"work_rate", "international_reputation", "skill_moves", "weak_foot",
	"nationality_name", "club_name",
}

// WriteCSV writes cleaned players in a layout ParseCSV reads back unchanged.
func WriteCSV(w io.Writer, players []types.Player) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cleanedColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	for _, p := range players {
		gk := p.Goalkeeping
		record := []string{
			p.ShortName, p.LongName, strings.Join(p.Roles, ", "), string(p.Category),
			itoa(p.Overall), itoa(p.Potential),
			itoa(p.Pace), itoa(p.Shooting), itoa(p.Passing), itoa(p.Dribbling), itoa(p.Defending), itoa(p.Physic),
			itoa(gk.Diving), itoa(gk.Handling), itoa(gk.Kicking), itoa(gk.Positioning), itoa(gk.Reflexes), itoa(gk.Speed),
			itoa(p.Age), ftoa(p.ValueEUR), ftoa(p.WageEUR), itoa(p.HeightCM), itoa(p.WeightKG), p.Foot,
			p.WorkRate, itoa(p.Reputation), itoa(p.SkillMoves), itoa(p.WeakFoot),
			p.Nationality, p.Club,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.DisplayName(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVLoader reads the catalog from a player export on disk.
type CSVLoader struct {
	Path    string
	Version int
}

// Load parses the file. A missing or empty file is a DataUnavailableError.
func (l CSVLoader) Load(ctx context.Context) ([]types.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, &DataUnavailableError{Source: l.Path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	version := l.Version
	if version == 0 {
		version = DefaultVersion
	}
	players, _, err := ParseCSV(f, version)
	if err != nil {
		return nil, &DataUnavailableError{Source: l.Path, Cause: err}
	}
	if len(players) == 0 {
		return nil, &DataUnavailableError{Source: l.Path, Cause: fmt.Errorf("no usable rows for version %d", version)}
	}
	return players, nil
}
