// Package panel binds named, typed fields to keyboard controls and draws
// them as an overlay.
package panel

import (
	"math"
	"unicode"

	"pulse/hal"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind is the type of a panel field.
type Kind uint8

const (
	KindBool Kind = iota
	KindRange
	KindColor
	KindCommand
)

// Hue change per color step, in degrees.
const hueStep = 15

// Field is one bound control. Builder methods return the field so calls can
// be chained.
type Field struct {
	Name string
	Kind Kind

	shortcut rune

	getBool func() bool
	setBool func(bool)

	min, max, step float64
	getNum         func() float64
	setNum         func(float64)
	onFinish       func(float64)

	getColor func() colorful.Color
	setColor func(colorful.Color)

	run      func()
	onChange func()
}

// Shortcut binds a key that activates the field from anywhere.
func (f *Field) Shortcut(r rune) *Field {
	f.shortcut = unicode.ToLower(r)
	return f
}

// OnFinishChange sets the callback for a range field that runs once an edit
// is released, with the final value.
func (f *Field) OnFinishChange(fn func(float64)) *Field {
	f.onFinish = fn
	return f
}

// OnChange sets a callback that runs after every change of a bool or color.
func (f *Field) OnChange(fn func()) *Field {
	f.onChange = fn
	return f
}

func (f *Field) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}

// Panel is an ordered set of fields with one selected.
type Panel struct {
	Title  string
	Hidden bool

	fields  []*Field
	sel     int
	pending *Field // range field edited but not yet finished
}

func New(title string) *Panel {
	return &Panel{Title: title}
}

func (p *Panel) add(f *Field) *Field {
	p.fields = append(p.fields, f)
	return f
}

func (p *Panel) AddBool(name string, get func() bool, set func(bool)) *Field {
	return p.add(&Field{Name: name, Kind: KindBool, getBool: get, setBool: set})
}

func (p *Panel) AddRange(name string, min, max, step float64, get func() float64, set func(float64)) *Field {
	return p.add(&Field{Name: name, Kind: KindRange, min: min, max: max, step: step, getNum: get, setNum: set})
}

func (p *Panel) AddColor(name string, get func() colorful.Color, set func(colorful.Color)) *Field {
	return p.add(&Field{Name: name, Kind: KindColor, getColor: get, setColor: set})
}

func (p *Panel) AddCommand(name string, run func()) *Field {
	return p.add(&Field{Name: name, Kind: KindCommand, run: run})
}

// Fields returns the bound fields in display order.
func (p *Panel) Fields() []*Field { return p.fields }

// Selected returns the selected field, or nil for an empty panel.
func (p *Panel) Selected() *Field {
	if len(p.fields) == 0 {
		return nil
	}
	return p.fields[p.sel]
}

// HandleKey applies one key event and reports whether the panel used it.
func (p *Panel) HandleKey(ev hal.KeyEvent) bool {
	if ev.Code == hal.KeyUnknown {
		if !ev.Press || ev.Rune == 0 {
			return false
		}
		return p.handleShortcut(unicode.ToLower(ev.Rune))
	}

	switch ev.Code {
	case hal.KeyTab:
		if ev.Press {
			p.Hidden = !p.Hidden
		}
		return true
	case hal.KeyLeft, hal.KeyRight:
		if !ev.Press {
			editing := p.pending != nil
			p.finish()
			return editing || !p.Hidden
		}
		if p.Hidden {
			return false
		}
		dir := 1.0
		if ev.Code == hal.KeyLeft {
			dir = -1
		}
		p.adjust(p.Selected(), dir)
		return true
	}

	if !ev.Press || p.Hidden || len(p.fields) == 0 {
		return false
	}
	switch ev.Code {
	case hal.KeyUp:
		p.finish()
		p.sel = (p.sel + len(p.fields) - 1) % len(p.fields)
	case hal.KeyDown:
		p.finish()
		p.sel = (p.sel + 1) % len(p.fields)
	case hal.KeyEnter:
		f := p.Selected()
		if f.Kind == KindRange {
			p.finish()
		} else {
			p.activate(f)
		}
	default:
		return false
	}
	return true
}

func (p *Panel) handleShortcut(r rune) bool {
	for _, f := range p.fields {
		if f.shortcut != 0 && f.shortcut == r {
			p.activate(f)
			return true
		}
	}
	return false
}

// activate toggles a bool or runs a command.
func (p *Panel) activate(f *Field) {
	switch f.Kind {
	case KindBool:
		f.setBool(!f.getBool())
		f.changed()
	case KindCommand:
		if f.run != nil {
			f.run()
		}
	}
}

func (p *Panel) adjust(f *Field, dir float64) {
	if f == nil {
		return
	}
	switch f.Kind {
	case KindBool, KindCommand:
		p.activate(f)
	case KindRange:
		v := f.getNum() + dir*f.step
		if f.step > 0 {
			v = f.min + math.Round((v-f.min)/f.step)*f.step
		}
		v = math.Max(f.min, math.Min(f.max, v))
		f.setNum(v)
		p.pending = f
	case KindColor:
		h, s, v := f.getColor().Hsv()
		h = math.Mod(h+dir*hueStep+360, 360)
		f.setColor(colorful.Hsv(h, s, v).Clamped())
		f.changed()
	}
}

// finish completes a pending range edit.
func (p *Panel) finish() {
	f := p.pending
	if f == nil {
		return
	}
	p.pending = nil
	if f.onFinish != nil {
		f.onFinish(f.getNum())
	}
}
