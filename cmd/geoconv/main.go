package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/geocentric"
)

const usage = `usage: geoconv <command> [flags] [args]

commands:
  forward  lat lon height   geodetic degrees and meters to geocentric
  reverse  x y z            geocentric meters to geodetic
  nvector  x y z            geocentric meters to n-vector and height
  datum    -to NAME x y z   convert geocentric meters between datums
  resect   -method NAME ... solve a resection from known points and angles
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: loadLogLevel(),
	}))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	datum := loadDatum(logger)

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "forward":
		err = runForward(logger, datum, args)
	case "reverse":
		err = runReverse(logger, datum, args)
	case "nvector":
		err = runNvector(logger, datum, args)
	case "datum":
		err = runDatum(logger, datum, args)
	case "resect":
		err = runResect(logger, datum, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func loadLogLevel() slog.Level {
	var level slog.Level
	if v := os.Getenv("GEOCONV_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return slog.LevelInfo
		}
	}
	return level
}

func loadDatum(logger *slog.Logger) *geocentric.Datum {
	datum := geocentric.WGS84
	if v := os.Getenv("GEOCONV_DATUM"); v != "" {
		d, err := geocentric.DatumByName(v)
		if err != nil {
			logger.Warn("invalid GEOCONV_DATUM value, using default", "value", v, "default", datum.Name())
		} else {
			datum = d
		}
	}
	logger.Debug("datum config", "datum", datum.Name())
	return datum
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	vs := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vs[i] = v
	}
	return vs, nil
}

func parseCartesian(args []string, datum *geocentric.Datum) (*geocentric.Cartesian, error) {
	vs, err := parseFloats(args, 3)
	if err != nil {
		return nil, err
	}
	return geocentric.NewCartesian(vs[0], vs[1], vs[2], datum)
}

func runForward(logger *slog.Logger, datum *geocentric.Datum, args []string) error {
	vs, err := parseFloats(args, 3)
	if err != nil {
		return err
	}
	ecef, err := geocentric.NewEcef(datum)
	if err != nil {
		return err
	}
	r, err := ecef.Forward(s2.LatLngFromDegrees(vs[0], vs[1]), vs[2], false)
	if err != nil {
		return err
	}
	logger.Debug("forward", "latlng", r.LatLng, "height", r.Height)
	fmt.Printf("%.4f %.4f %.4f\n", r.X, r.Y, r.Z)
	return nil
}

func runReverse(logger *slog.Logger, datum *geocentric.Datum, args []string) error {
	c, err := parseCartesian(args, datum)
	if err != nil {
		return err
	}
	r, err := c.ToEcef()
	if err != nil {
		return err
	}
	logger.Debug("reverse", "point", c, "case", r.Case)
	fmt.Printf("%.9f %.9f %.4f\n", r.LatLng.Lat.Degrees(), r.LatLng.Lng.Degrees(), r.Height)
	return nil
}

func runNvector(logger *slog.Logger, datum *geocentric.Datum, args []string) error {
	c, err := parseCartesian(args, datum)
	if err != nil {
		return err
	}
	n, err := c.ToNvector()
	if err != nil {
		return err
	}
	logger.Debug("nvector", "point", c)
	fmt.Printf("%.12f %.12f %.12f %.4f\n", n.X, n.Y, n.Z, n.H)
	return nil
}

func runDatum(logger *slog.Logger, datum *geocentric.Datum, args []string) error {
	fs := flag.NewFlagSet("datum", flag.ContinueOnError)
	to := fs.String("to", "WGS84", "target datum")
	if err := fs.Parse(args); err != nil {
		return err
	}
	datum2, err := geocentric.DatumByName(*to)
	if err != nil {
		return err
	}
	c, err := parseCartesian(fs.Args(), datum)
	if err != nil {
		return err
	}
	r, err := c.ToDatum(datum2, nil)
	if err != nil {
		return err
	}
	logger.Debug("datum", "from", datum.Name(), "to", datum2.Name())
	fmt.Printf("%.4f %.4f %.4f\n", r.X(), r.Y(), r.Z())
	return nil
}

// parsePoint parses "x,y" or "x,y,z".
func parsePoint(s string, datum *geocentric.Datum) (*geocentric.Cartesian, error) {
	parts := strings.Split(s, ",")
	if len(parts) == 2 {
		parts = append(parts, "0")
	}
	return parseCartesian(parts, datum)
}

func parseAngles(s string) ([]s1.Angle, error) {
	var as []s1.Angle
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("angle %q: %w", p, err)
		}
		as = append(as, s1.Angle(v)*s1.Degree)
	}
	return as, nil
}

func runResect(logger *slog.Logger, datum *geocentric.Datum, args []string) error {
	fs := flag.NewFlagSet("resect", flag.ContinueOnError)
	method := fs.String("method", "tienstra7", "cassini, collins5, pierlot, pierlotx or tienstra7")
	a := fs.String("a", "", "first known point x,y[,z]")
	b := fs.String("b", "", "second known point x,y[,z]")
	c := fs.String("c", "", "third known point x,y[,z]")
	angles := fs.String("angles", "", "comma separated angles in degrees")
	useZ := fs.Bool("z", false, "interpolate z from the known points")
	eps := fs.Float64("eps", geocentric.EPS, "pierlot cotangent limit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pa, err := parsePoint(*a, datum)
	if err != nil {
		return fmt.Errorf("-a: %w", err)
	}
	pb, err := parsePoint(*b, datum)
	if err != nil {
		return fmt.Errorf("-b: %w", err)
	}
	pc, err := parsePoint(*c, datum)
	if err != nil {
		return fmt.Errorf("-c: %w", err)
	}
	as, err := parseAngles(*angles)
	if err != nil {
		return err
	}
	want := map[string]int{"cassini": 2, "collins5": 2, "pierlot": 2, "pierlotx": 3, "tienstra7": 3}
	n, ok := want[*method]
	if !ok {
		return fmt.Errorf("unknown method %q", *method)
	}
	if len(as) != n {
		return fmt.Errorf("%s takes %d angles, got %d", *method, n, len(as))
	}
	logger.Debug("resect", "method", *method, "a", pa, "b", pb, "c", pc, "angles", *angles)

	var p *geocentric.Cartesian
	switch *method {
	case "cassini":
		p, err = pa.Cassini(pb, pc, as[0], as[1], *useZ)
	case "collins5":
		var r geocentric.Collins5Result
		if r, err = pa.Collins5(pb, pc, as[0], as[1], *useZ); err == nil {
			p = r.P
			logger.Info("collins5 auxiliary point", "h", r.H, "a", r.A, "b", r.B, "c", r.C)
		}
	case "pierlot":
		p, err = pa.Pierlot(pb, pc, as[0], as[1], *useZ, *eps)
	case "pierlotx":
		p, err = pa.PierlotX(pb, pc, as[0], as[1], as[2], *useZ)
	case "tienstra7":
		var r geocentric.Tienstra7Result
		if r, err = pa.Tienstra7(pb, pc, as[0], as[1], as[2], *useZ); err == nil {
			p = r.P
			logger.Info("tienstra7 triangle",
				"angle_a", r.A.Degrees(), "angle_b", r.B.Degrees(), "angle_c", r.C.Degrees(),
				"side_a", r.SideA, "side_b", r.SideB, "side_c", r.SideC)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("%.6f %.6f %.6f\n", p.X(), p.Y(), p.Z())
	return nil
}
