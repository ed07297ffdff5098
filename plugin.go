package pergola

import (
	"fmt"
	"reflect"
)

// Plugin extends the engine at registration time.
// A plugin exposing an Init() method has it invoked after Boot completes
// (or immediately, when installed on an already-booted engine).
type Plugin interface {
	Install(e *Engine) error
}

// PluginFunc adapts a bare function to the Plugin interface.
type PluginFunc func(e *Engine) error

// Install implements Plugin.
func (f PluginFunc) Install(e *Engine) error {
	return f(e)
}

// Use installs plugins. Each plugin is installed at most once: a plugin
// already on the installed list is skipped by identity.
func (e *Engine) Use(plugins ...Plugin) error {
	for _, p := range plugins {
		if p == nil {
			continue
		}
		if e.installed(p) {
			e.logger.Debug("plugin already installed, skipping", "plugin", fmt.Sprintf("%T", p))
			continue
		}
		if err := p.Install(e); err != nil {
			return fmt.Errorf("install plugin %T: %w", p, err)
		}

		e.mu.Lock()
		e.plugins = append(e.plugins, p)
		booted := e.booted
		e.mu.Unlock()

		if booted {
			if init, ok := p.(interface{ Init() }); ok {
				init.Init()
			}
		}
	}
	return nil
}

func (e *Engine) installed(p Plugin) bool {
	key := pluginKey(p)
	if key == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, q := range e.plugins {
		if pluginKey(q) == key {
			return true
		}
	}
	return false
}

// pluginKey derives an identity for deduplication. Function and pointer
// plugins compare by address; comparable values compare by value.
func pluginKey(p Plugin) any {
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Chan, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		return v.Pointer()
	}
	if v.Comparable() {
		return p
	}
	return nil
}
