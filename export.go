package orbitviz

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Export formats.
const (
	FormatXYZ  = "xyz"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// WriteXYZ writes the trajectory as `<jd> <x> <y> <z>` records, where sample zero
// (periapsis) is at the epoch.
func WriteXYZ(w io.Writer, s *OrbitSnapshot, epoch time.Time) error {
	epoch = epoch.UTC()
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Orbit: %s
# Records are <jd> <x> <y> <z>
#   Time is a Julian date
#   Position in km
#   Periapsis passage (UTC): %s
`, s.ComputedAt.Format(time.RFC3339), s.Elements, epoch.Format(time.RFC3339)); err != nil {
		return err
	}
	for k, R := range s.Trajectory {
		dt := time.Duration(SampleTime(s.Elements, k) * float64(time.Second))
		if _, err := fmt.Fprintf(w, "%.8f %f %f %f\n", julian.TimeToJD(epoch.Add(dt)), R[0], R[1], R[2]); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the trajectory as `index,t,x,y,z,r` rows with a header.
func WriteCSV(w io.Writer, s *OrbitSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "t", "x", "y", "z", "r"}); err != nil {
		return err
	}
	for k, R := range s.Trajectory {
		rec := []string{
			strconv.Itoa(k),
			strconv.FormatFloat(SampleTime(s.Elements, k), 'f', 3, 64),
			strconv.FormatFloat(R[0], 'f', 6, 64),
			strconv.FormatFloat(R[1], 'f', 6, 64),
			strconv.FormatFloat(R[2], 'f', 6, 64),
			strconv.FormatFloat(norm(R), 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderPayload is the JSON document consumed by a renderer.
type RenderPayload struct {
	Elements       payloadElements `json:"elements"`
	Period         float64         `json:"period"`
	Energy         float64         `json:"energy"`
	Trajectory     []float64       `json:"trajectory"`
	H              []float64       `json:"h"`
	E              []float64       `json:"e"`
	N              []float64       `json:"n"`
	NodeDegenerate bool            `json:"nodeDegenerate,omitempty"`
	Rotation       []float64       `json:"rotation"` // Row major
}

type payloadElements struct {
	SMA     float64 `json:"sma"`
	Ecc     float64 `json:"ecc"`
	Inc     float64 `json:"inc"`
	RAAN    float64 `json:"raan"`
	ArgPeri float64 `json:"argPeri"`
	Mu      float64 `json:"mu"`
	Step    float64 `json:"step"`
}

// Payload returns the renderer payload of this snapshot.
func (s *OrbitSnapshot) Payload() RenderPayload {
	rot := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot = append(rot, s.Rotation.At(i, j))
		}
	}
	o := s.Elements
	return RenderPayload{
		Elements:       payloadElements{o.SMA, o.Ecc, o.Inc, o.RAAN, o.ArgPeri, o.Mu, o.Step},
		Period:         s.Period,
		Energy:         o.Energyξ(),
		Trajectory:     s.Trajectory.Flatten(),
		H:              s.Vectors.H,
		E:              s.Vectors.E,
		N:              s.Vectors.N,
		NodeDegenerate: s.Vectors.NodeDegenerate,
		Rotation:       rot,
	}
}

// WriteJSON writes the renderer payload.
func WriteJSON(w io.Writer, s *OrbitSnapshot) error {
	return json.NewEncoder(w).Encode(s.Payload())
}

// ExportConfig configures ExportSnapshot.
type ExportConfig struct {
	Dir       string
	Filename  string
	Formats   []string
	Epoch     time.Time
	Timestamp bool // Append the creation time to the file names
}

// ExportSnapshot writes one file per format and returns their paths.
func ExportSnapshot(s *OrbitSnapshot, conf ExportConfig) ([]string, error) {
	name := conf.Filename
	if name == "" {
		name = "orbit"
	}
	if conf.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	var paths []string
	for _, format := range conf.Formats {
		format = strings.ToLower(strings.TrimSpace(format))
		var write func(io.Writer) error
		switch format {
		case FormatXYZ:
			write = func(w io.Writer) error { return WriteXYZ(w, s, conf.Epoch) }
		case FormatCSV:
			write = func(w io.Writer) error { return WriteCSV(w, s) }
		case FormatJSON:
			write = func(w io.Writer) error { return WriteJSON(w, s) }
		default:
			return paths, fmt.Errorf("%w '%s'", ErrUnknownFormat, format)
		}
		path := filepath.Join(conf.Dir, name+"."+format)
		if err := writeFile(path, write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
