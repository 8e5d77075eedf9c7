package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/willie68/go_tileloader/internal/areas"
	"github.com/willie68/go_tileloader/internal/model"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrAborted      = errors.New("input aborted")
)

type line struct {
	text string
	err  error
}

// Prompter asks the user on the console. Input is read by a background
// reader, so a question can be aborted by its context.
type Prompter struct {
	in    *bufio.Reader
	lines chan line
	once  sync.Once
	out   io.Writer
	color colorstring.Colorize
}

func New(in io.Reader, out io.Writer, colored bool) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		lines: make(chan line, 1),
		out:   out,
		color: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !colored,
			Reset:   true,
		},
	}
}

// Printf writes a colored message, see colorstring for the color tags
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprint(p.out, p.color.Color(fmt.Sprintf(format, a...)))
}

// SelectArea shows the preset menu and returns the chosen area, the last
// entry asks for a custom area.
func (p *Prompter) SelectArea(ctx context.Context) (model.Area, error) {
	p.Printf("[bold]Select the area to download:\n")
	for i, a := range areas.Presets {
		p.Printf("%d. %s\n", i+1, areas.Title(a))
	}
	custom := len(areas.Presets) + 1
	p.Printf("%d. %s\n", custom, areas.Title(model.Area{}))

	choice, err := p.ask(ctx, fmt.Sprintf("\nYour choice (1-%d): ", custom))
	if err != nil {
		return model.Area{}, err
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > custom {
		return model.Area{}, fmt.Errorf("%w: %q is not a menu entry", ErrInvalidInput, choice)
	}
	if idx == custom {
		return p.CustomArea(ctx)
	}
	return areas.Presets[idx-1], nil
}

// CustomArea asks for the six values of a custom area
func (p *Prompter) CustomArea(ctx context.Context) (model.Area, error) {
	var (
		a   model.Area
		err error
	)
	p.Printf("\nEnter the custom area:\n")
	floats := []struct {
		label string
		dst   *float64
	}{
		{"min latitude (e.g. -60): ", &a.BBox.MinLat},
		{"max latitude (e.g. 80): ", &a.BBox.MaxLat},
		{"min longitude (e.g. -180): ", &a.BBox.MinLon},
		{"max longitude (e.g. 180): ", &a.BBox.MaxLon},
	}
	for _, f := range floats {
		if *f.dst, err = p.askFloat(ctx, f.label); err != nil {
			return model.Area{}, err
		}
	}
	if a.Zoom.Min, err = p.askInt(ctx, "min zoom (e.g. 0): "); err != nil {
		return model.Area{}, err
	}
	if a.Zoom.Max, err = p.askInt(ctx, "max zoom (e.g. 6): "); err != nil {
		return model.Area{}, err
	}
	if err := areas.Validate(a); err != nil {
		return model.Area{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return a, nil
}

// Confirm asks a yes/no question, everything but y or yes is a no
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ask(ctx, question+" (y/N): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ask returns ErrAborted on end of input or if ctx is done
func (p *Prompter) ask(ctx context.Context, label string) (string, error) {
	p.Printf("%s", label)
	if ctx.Err() != nil {
		return "", ErrAborted
	}
	p.once.Do(func() { go p.readLines() })
	var l line
	select {
	case <-ctx.Done():
		return "", ErrAborted
	case rl, ok := <-p.lines:
		if !ok {
			return "", ErrAborted
		}
		l = rl
	}
	if l.err != nil && (l.text == "" || !errors.Is(l.err, io.EOF)) {
		if errors.Is(l.err, io.EOF) {
			return "", ErrAborted
		}
		return "", l.err
	}
	return strings.TrimSpace(l.text), nil
}

func (p *Prompter) readLines() {
	defer close(p.lines)
	for {
		s, err := p.in.ReadString('\n')
		p.lines <- line{text: s, err: err}
		if err != nil {
			return
		}
	}
}

func (p *Prompter) askFloat(ctx context.Context, label string) (float64, error) {
	s, err := p.ask(ctx, label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	return v, nil
}

func (p *Prompter) askInt(ctx context.Context, label string) (int, error) {
	s, err := p.ask(ctx, label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, s)
	}
	return v, nil
}
