//go:build linux

package ime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"emojikbd/internal/metrics"
	"emojikbd/internal/translate"
)

// IBus D-Bus constants
const (
	IBusFactoryPath      = "/org/freedesktop/IBus/Factory"
	IBusFactoryInterface = "org.freedesktop.IBus.Factory"
	IBusEngineInterface  = "org.freedesktop.IBus.Engine"
	IBusServiceInterface = "org.freedesktop.IBus.Service"
	IBusEnginePathPrefix = "/org/freedesktop/IBus/Engine/"
	DefaultBusName       = "org.emojikbd.IBus"
	DefaultEngineName    = "emojikbd"
)

// IBus key event state masks
const (
	IBusShiftMask   uint32 = 1 << 0
	IBusLockMask    uint32 = 1 << 1
	IBusControlMask uint32 = 1 << 2
	IBusMod1Mask    uint32 = 1 << 3 // Alt
	IBusMod4Mask    uint32 = 1 << 6 // Super/Meta
	IBusReleaseMask uint32 = 1 << 30
)

// Common GDK key symbols
const (
	GDKBackSpace = 0xff08
	GDKReturn    = 0xff0d
	GDKEscape    = 0xff1b
	GDKSpace     = 0x0020
)

// IBusConfig holds IBus engine configuration.
type IBusConfig struct {
	// BusName is the well-known name requested on the IBus bus.
	BusName string

	// EngineName is the engine name IBus asks the factory for.
	EngineName string

	// Address overrides the IBus bus address. Empty means discover it
	// from IBUS_ADDRESS or `ibus address`, falling back to the session bus.
	Address string
}

// DefaultIBusConfig returns sensible defaults.
func DefaultIBusConfig() IBusConfig {
	return IBusConfig{
		BusName:    DefaultBusName,
		EngineName: DefaultEngineName,
	}
}

// IBusEngineStats tracks statistics for one input context. metrics.IME
// sums key counts over every context in the process; these stay with the
// context and are logged when it is destroyed.
type IBusEngineStats struct {
	KeysCaptured    uint64
	KeysPassed      uint64
	TextChanges     uint64
	FocusChanges    uint64
	LastCommitTime  time.Time
	LastFocusChange time.Time
}

// emitFunc sends a D-Bus signal from path.
type emitFunc func(path dbus.ObjectPath, name string, values ...interface{}) error

// IBusEngine serves one IBus input context. Each context owns its own
// Engine, so two text fields never share a display/source pair.
type IBusEngine struct {
	path      dbus.ObjectPath
	engine    *Engine
	emit      emitFunc
	onDestroy func(dbus.ObjectPath)
	log       *slog.Logger

	mu      sync.RWMutex
	enabled bool
	stats   IBusEngineStats
}

// newIBusEngine creates an engine for path. emit may be nil, in which case
// commits are dropped (used by tests).
func newIBusEngine(path dbus.ObjectPath, tr *translate.Translator, emit emitFunc, log *slog.Logger) *IBusEngine {
	if log == nil {
		log = slog.Default()
	}
	engine := NewEngine(tr)
	engine.SetLogger(log.With(slog.String("context", string(path))))
	return &IBusEngine{
		path:   path,
		engine: engine,
		emit:   emit,
		log:    log,
	}
}

// Engine returns the context's engine.
func (e *IBusEngine) Engine() *Engine {
	return e.engine
}

// ProcessKeyEvent handles key press/release events from IBus.
// Returns true if the key was consumed, false to pass through.
func (e *IBusEngine) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	if state&IBusReleaseMask != 0 {
		return false, nil
	}

	key := Key{
		Code:      uint16(keycode + 8),
		Char:      keyvalToRune(keyval),
		Modifiers: modifiersFromState(state),
	}

	commit, handled := e.engine.OnKeyDown(key)

	e.mu.Lock()
	if handled {
		e.stats.KeysCaptured++
		e.stats.LastCommitTime = time.Now()
	} else {
		e.stats.KeysPassed++
	}
	e.mu.Unlock()

	if !handled {
		return false, nil
	}

	if err := e.commitText(commit); err != nil {
		e.log.Warn("commit text failed", "error", err)
	}
	return true, nil
}

// commitText asks IBus to insert text into the focused application.
func (e *IBusEngine) commitText(text string) error {
	if e.emit == nil {
		return nil
	}
	return e.emit(e.path, IBusEngineInterface+".CommitText", dbus.MakeVariant(newIBusText(text)))
}

// FocusIn is called when the engine gains input focus.
func (e *IBusEngine) FocusIn() *dbus.Error {
	e.engine.Focus()
	e.recordFocusChange()
	return nil
}

// FocusOut is called when the engine loses input focus.
func (e *IBusEngine) FocusOut() *dbus.Error {
	e.engine.Blur()
	e.recordFocusChange()
	return nil
}

func (e *IBusEngine) recordFocusChange() {
	e.mu.Lock()
	e.stats.FocusChanges++
	e.stats.LastFocusChange = time.Now()
	e.mu.Unlock()
}

// SetSurroundingText receives the text around the cursor. It is the
// field's own view of its content after edits the engine did not make
// (backspace, paste), so it resynchronizes the source text.
func (e *IBusEngine) SetSurroundingText(text dbus.Variant, cursorPos, anchorPos uint32) *dbus.Error {
	s, ok := variantText(text)
	if !ok {
		return nil
	}
	if e.engine.OnTextChange(s) {
		e.mu.Lock()
		e.stats.TextChanges++
		e.mu.Unlock()
	}
	return nil
}

// Reset is called when the context's text is replaced or the cursor jumps.
func (e *IBusEngine) Reset() *dbus.Error {
	e.engine.Reset()
	return nil
}

// Enable is called when the engine is enabled.
func (e *IBusEngine) Enable() *dbus.Error {
	e.mu.Lock()
	e.enabled = true
	e.mu.Unlock()
	e.log.Debug("engine enabled", "path", string(e.path))
	return nil
}

// Disable is called when the engine is disabled.
func (e *IBusEngine) Disable() *dbus.Error {
	e.mu.Lock()
	e.enabled = false
	e.mu.Unlock()
	e.engine.Blur()
	e.log.Debug("engine disabled", "path", string(e.path))
	return nil
}

// SetCapabilities informs the engine of client capabilities.
func (e *IBusEngine) SetCapabilities(caps uint32) *dbus.Error {
	return nil
}

// SetContentType informs about the type of content being edited.
func (e *IBusEngine) SetContentType(purpose, hints uint32) *dbus.Error {
	return nil
}

// SetCursorLocation informs about the cursor position on screen.
func (e *IBusEngine) SetCursorLocation(x, y, w, h int32) *dbus.Error {
	return nil
}

// Destroy is called by IBus when the input context goes away.
func (e *IBusEngine) Destroy() *dbus.Error {
	e.engine.Close()
	st := e.Stats()
	e.log.Debug("context destroyed",
		"path", string(e.path),
		"keys_captured", st.KeysCaptured,
		"keys_passed", st.KeysPassed,
		"text_changes", st.TextChanges,
		"focus_changes", st.FocusChanges,
	)
	if e.onDestroy != nil {
		e.onDestroy(e.path)
	}
	return nil
}

// Enabled reports whether IBus has enabled this engine.
func (e *IBusEngine) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// Stats returns a copy of the engine statistics.
func (e *IBusEngine) Stats() IBusEngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// IBusFactory implements the IBus Factory D-Bus interface and owns the bus
// connection.
type IBusFactory struct {
	config  IBusConfig
	tr      *translate.Translator
	log     *slog.Logger
	metrics *metrics.IME

	conn *dbus.Conn

	mu      sync.Mutex
	nextID  uint32
	engines map[dbus.ObjectPath]*IBusEngine
}

// NewIBusFactory creates a factory. Call Start to connect.
func NewIBusFactory(config IBusConfig, tr *translate.Translator, log *slog.Logger) *IBusFactory {
	if config.BusName == "" {
		config.BusName = DefaultBusName
	}
	if config.EngineName == "" {
		config.EngineName = DefaultEngineName
	}
	if log == nil {
		log = slog.Default()
	}
	return &IBusFactory{
		config:  config,
		tr:      tr,
		log:     log,
		engines: make(map[dbus.ObjectPath]*IBusEngine),
	}
}

// SetMetrics makes engines created from now on record into m.
func (f *IBusFactory) SetMetrics(m *metrics.IME) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metrics = m
}

// Start connects to the IBus bus, claims the bus name and exports the
// factory. It returns once registration is done; ctx cancellation stops
// the factory.
func (f *IBusFactory) Start(ctx context.Context) error {
	conn, err := connectIBus(f.config.Address)
	if err != nil {
		return fmt.Errorf("connect to ibus: %w", err)
	}

	reply, err := conn.RequestName(f.config.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return errors.New("bus name already taken")
	}

	if err := conn.Export(f, IBusFactoryPath, IBusFactoryInterface); err != nil {
		conn.Close()
		return fmt.Errorf("export factory: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = f.Stop()
	}()

	f.log.Info("ibus factory started", "bus_name", f.config.BusName, "engine", f.config.EngineName)
	return nil
}

// Stop closes every engine and the bus connection.
func (f *IBusFactory) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for path, eng := range f.engines {
		eng.engine.Close()
		delete(f.engines, path)
		f.metrics.EngineStopped()
	}

	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}

// CreateEngine creates a new engine instance for IBus.
func (f *IBusFactory) CreateEngine(engineName string) (dbus.ObjectPath, *dbus.Error) {
	if engineName != f.config.EngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine",
			[]interface{}{"Unknown engine: " + engineName})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	path := dbus.ObjectPath(fmt.Sprintf("%s%d", IBusEnginePathPrefix, f.nextID))

	var emit emitFunc
	if f.conn != nil {
		emit = f.conn.Emit
	}
	eng := newIBusEngine(path, f.tr, emit, f.log)
	eng.engine.SetMetrics(f.metrics)
	eng.onDestroy = f.remove

	if f.conn != nil {
		if err := f.conn.Export(eng, path, IBusEngineInterface); err != nil {
			return "", dbus.MakeFailedError(err)
		}
		if err := f.conn.Export(eng, path, IBusServiceInterface); err != nil {
			return "", dbus.MakeFailedError(err)
		}
	}
	f.engines[path] = eng
	f.metrics.EngineStarted()

	f.log.Debug("engine created", "path", string(path))
	return path, nil
}

// remove unexports an engine after IBus destroyed it.
func (f *IBusFactory) remove(path dbus.ObjectPath) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.engines[path]; !ok {
		return
	}
	delete(f.engines, path)
	f.metrics.EngineStopped()
	if f.conn != nil {
		_ = f.conn.Export(nil, path, IBusEngineInterface)
		_ = f.conn.Export(nil, path, IBusServiceInterface)
	}
}

// Engines returns the number of live engines.
func (f *IBusFactory) Engines() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.engines)
}

// connectIBus opens a connection to the IBus daemon's private bus.
func connectIBus(address string) (*dbus.Conn, error) {
	if address == "" {
		address = os.Getenv("IBUS_ADDRESS")
	}
	if address == "" {
		if out, err := exec.Command("ibus", "address").Output(); err == nil {
			address = strings.TrimSpace(string(out))
		}
	}
	if address == "" || address == "(null)" {
		return dbus.SessionBus()
	}
	return dbus.Connect(address)
}

// modifiersFromState converts an IBus modifier mask.
func modifiersFromState(state uint32) Modifiers {
	var m Modifiers
	if state&IBusShiftMask != 0 {
		m |= ModShift
	}
	if state&IBusControlMask != 0 {
		m |= ModControl
	}
	if state&IBusMod1Mask != 0 {
		m |= ModAlt
	}
	if state&IBusMod4Mask != 0 {
		m |= ModMeta
	}
	return m
}

// keyvalToRune converts X11 keysym to Unicode rune.
func keyvalToRune(keyval uint32) rune {
	// Direct Unicode mapping for Latin-1 range
	if keyval >= 0x20 && keyval <= 0x7e {
		return rune(keyval)
	}

	// Extended Latin (ISO 8859-1)
	if keyval >= 0xa0 && keyval <= 0xff {
		return rune(keyval)
	}

	// Unicode keysyms (0x01000000 + codepoint)
	if keyval >= 0x01000000 {
		return rune(keyval - 0x01000000)
	}

	return 0
}

// ibusText is the D-Bus serialization of an IBusText: (sa{sv}sv).
type ibusText struct {
	Name        string
	Attachments map[string]dbus.Variant
	Text        string
	Attrs       dbus.Variant
}

// ibusAttrList is the D-Bus serialization of an empty IBusAttrList.
type ibusAttrList struct {
	Name        string
	Attachments map[string]dbus.Variant
	Attrs       []dbus.Variant
}

func newIBusText(text string) ibusText {
	return ibusText{
		Name:        "IBusText",
		Attachments: map[string]dbus.Variant{},
		Text:        text,
		Attrs: dbus.MakeVariant(ibusAttrList{
			Name:        "IBusAttrList",
			Attachments: map[string]dbus.Variant{},
			Attrs:       []dbus.Variant{},
		}),
	}
}

// variantText extracts the string from an IBusText variant, either as sent
// by us or as decoded from the wire.
func variantText(v dbus.Variant) (string, bool) {
	switch val := v.Value().(type) {
	case ibusText:
		return val.Text, true
	case []interface{}:
		if len(val) < 3 {
			return "", false
		}
		s, ok := val[2].(string)
		return s, ok
	case string:
		return val, true
	default:
		return "", false
	}
}
