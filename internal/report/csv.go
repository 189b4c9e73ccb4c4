package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ffm/internal/forest"
	"ffm/internal/plant"

	"github.com/google/uuid"
)

// MonteCarlo writes one CSV row per sampled location. All samples of a
// batch must share the strata and species of the first, which the header
// describes.
type MonteCarlo struct {
	w     *csv.Writer
	RunID uuid.UUID
}

// NewMonteCarlo starts a batch with a fresh run id.
func NewMonteCarlo(w io.Writer) *MonteCarlo {
	return &MonteCarlo{w: csv.NewWriter(w), RunID: uuid.New()}
}

func num(format string, x float64) string { return fmt.Sprintf(format, x) }

var speciesColumns = []string{
	"Composition", "Live FMC", "Silica free ash content", "Ignition temp input", "Ignition temp",
	"Proportion dead", "Leaf thickness", "Leaf width", "Leaf length", "Leaf separation",
	"Stem order", "Clump separation", "Clump diameter", "Hc", "He", "Ht", "Hp", "w",
}

// Header writes the site description and the column names.
func (m *MonteCarlo) Header(loc forest.Location) error {
	f := loc.Forest
	rows := [][]string{
		{"Monte Carlo Results"},
		{"Run id", m.RunID.String()},
		{"SITE CHARACTERISTICS"},
		{"Fireline length (m)", num("%.0f", loc.FirelineLength)},
		{"Slope (deg)", num("%.1f", deg(loc.Slope()))},
		{"Mean surface fuel diameter (m)", num("%.5f", f.Surface.MeanFuelDiam)},
		{"Mean leaf fineness (m)", num("%.5f", f.Surface.MeanFineLeaves)},
	}
	overlaps := []string{"Specified overlaps"}
	for _, o := range f.Overlaps() {
		overlaps = append(overlaps, o.String())
	}
	rows = append(rows, overlaps, nil)

	cols := []string{"Wind speed (km/h)", "Air temperature (deg C)", "Dead FMC", "Surface fuel load (t/ha)"}
	for _, st := range f.Strata() {
		cols = append(cols, st.Name()+" plant separation (m)")
		for _, sp := range st.Species() {
			for _, c := range speciesColumns {
				cols = append(cols, st.Name()+" "+sp.Name()+" "+c)
			}
		}
	}
	for _, quantity := range []string{"Flame length", "Flame tip height", "Flame origin height", "Flame angle", "ROS"} {
		cols = append(cols, quantity+" Overall", quantity+" Surface")
		for _, st := range f.Strata() {
			cols = append(cols, quantity+" "+st.Name())
		}
	}
	cols = append(cols, "Flame depth", "Crown fire type", "Crown run length", "Crown run velocity",
		"Wind reduction factor", "McArthur", "Luke & McArthur", "Van Wagner", "Van Wagner with wind")
	rows = append(rows, cols)

	for _, r := range rows {
		if r == nil {
			r = []string{}
		}
		if err := m.w.Write(r); err != nil {
			return err
		}
	}
	m.w.Flush()
	return m.w.Error()
}

func speciesInputs(sp plant.Species) []string {
	t := sp.Traits()
	optional := func(x float64, ok bool) string {
		if !ok {
			return ""
		}
		return num("%.1f", x)
	}
	crown := sp.Crown()
	ash, hasAsh := sp.SilicaFreeAsh()
	measured, hasMeasured := sp.MeasuredIgnitionTemp()
	ign, hasIgn := sp.IgnitionTemp()
	ashStr := ""
	if hasAsh {
		ashStr = num("%.4f", ash)
	}
	return []string{
		num("%.3f", sp.Composition()),
		num("%.3f", t.LiveLeafMoisture),
		ashStr,
		optional(measured, hasMeasured),
		optional(ign, hasIgn),
		num("%.3f", t.PropDead),
		num("%.5f", t.LeafThickness),
		num("%.5f", t.LeafWidth),
		num("%.5f", t.LeafLength),
		num("%.5f", t.LeafSeparation),
		num("%.2f", t.StemOrder),
		num("%.3f", t.ClumpSeparation),
		num("%.3f", t.ClumpDiameter),
		num("%.3f", crown.CentreBottom()),
		num("%.3f", crown.RightBottom()),
		num("%.3f", crown.RightTop()),
		num("%.3f", crown.CentreTop()),
		num("%.3f", sp.Width()),
	}
}

// Row writes the inputs and results of one sample.
func (m *MonteCarlo) Row(loc forest.Location, res forest.Results) error {
	f := loc.Forest
	row := []string{
		num("%.1f", kmh(loc.IncidentWind)),
		num("%.1f", loc.Weather.AirTemp),
		num("%.3f", f.Surface.DeadFuelMoist),
		num("%.1f", f.Surface.FuelLoad*10),
	}
	for _, st := range f.Strata() {
		sep := ""
		if s, ok := st.PlantSep(); ok {
			sep = num("%.2f", s)
		}
		row = append(row, sep)
		for _, sp := range st.Species() {
			row = append(row, speciesInputs(sp)...)
		}
	}

	add := func(overall, surface float64, get func(forest.StratumResults) float64, format string) {
		row = append(row, num(format, overall), num(format, surface))
		for _, sr := range res.Strata {
			row = append(row, num(format, get(sr)))
		}
	}
	add(res.FlameLength, res.SurfaceFlameLength, func(sr forest.StratumResults) float64 { return sr.FlameLength }, "%.2f")
	add(res.FlameTipHeight, res.SurfaceFlameHeight, func(sr forest.StratumResults) float64 { return sr.FlameTipHeight }, "%.2f")
	add(res.FlameOriginHeight, 0, func(sr forest.StratumResults) float64 { return sr.FlameOriginHeight }, "%.2f")
	add(deg(res.FlameAngle), deg(res.SurfaceFlameAngle), func(sr forest.StratumResults) float64 { return deg(sr.FlameAngle) }, "%.2f")
	add(kmh(res.ROS), kmh(res.SurfaceROS), func(sr forest.StratumResults) float64 { return kmh(sr.ROS) }, "%.2f")

	row = append(row,
		num("%.1f", res.FlameDepth),
		res.CrownFireType.String(),
		num("%.1f", res.CrownRunLength),
		num("%.2f", kmh(res.CrownRunVelocity)),
		strconv.FormatFloat(res.WindReductionFactor, 'f', 2, 64),
		num("%.2f", res.ScorchHeightMcArthur),
		num("%.2f", res.ScorchHeightLukeMcArthur),
		num("%.2f", res.ScorchHeightVanWagner),
		num("%.2f", res.ScorchHeightVanWagnerWithWind),
	)
	if err := m.w.Write(row); err != nil {
		return err
	}
	m.w.Flush()
	return m.w.Error()
}
