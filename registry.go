// Copyright © 2023 Socking, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hydrator

import (
	"fmt"
	"sync"
)

// DriverPluginType is the plugin type under which database driver plugins
// are registered.
const DriverPluginType = "jdbc"

// DriverPlugin binds a named driver plugin to a database/sql driver. The
// package registering a DriverPlugin is responsible for importing the
// driver so it is registered with database/sql.
type DriverPlugin struct {
	// Type is the plugin type, usually DriverPluginType.
	Type string
	// Name is the plugin name referenced by plugin configurations.
	Name string
	// DriverName is the database/sql driver name.
	DriverName string
}

func (d DriverPlugin) key() string {
	return d.Type + "." + d.Name
}

// SourceFactory creates a configured source from a raw configuration map.
type SourceFactory func(config map[string]string) (BatchSource, error)

// SinkFactory creates a configured sink from a raw configuration map.
type SinkFactory func(config map[string]string) (BatchSink, error)

// InputFormatFactory creates an input format.
type InputFormatFactory func() InputFormat

// OutputFormatFactory creates an output format.
type OutputFormatFactory func() OutputFormat

// Registry holds the plugins, driver plugins and formats installed on a
// host. It is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	sources       map[string]SourceFactory
	sinks         map[string]SinkFactory
	drivers       map[string]DriverPlugin
	inputFormats  map[string]InputFormatFactory
	outputFormats map[string]OutputFormatFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources:       make(map[string]SourceFactory),
		sinks:         make(map[string]SinkFactory),
		drivers:       make(map[string]DriverPlugin),
		inputFormats:  make(map[string]InputFormatFactory),
		outputFormats: make(map[string]OutputFormatFactory),
	}
}

// RegisterSource installs a source plugin under the given name.
func (r *Registry) RegisterSource(name string, factory SourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[name]; ok {
		return fmt.Errorf("source plugin %q registered twice", name)
	}
	r.sources[name] = factory
	return nil
}

// RegisterSink installs a sink plugin under the given name.
func (r *Registry) RegisterSink(name string, factory SinkFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[name]; ok {
		return fmt.Errorf("sink plugin %q registered twice", name)
	}
	r.sinks[name] = factory
	return nil
}

// RegisterDriver installs a driver plugin.
func (r *Registry) RegisterDriver(d DriverPlugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[d.key()]; ok {
		return fmt.Errorf("driver plugin %q registered twice", d.key())
	}
	r.drivers[d.key()] = d
	return nil
}

// RegisterInputFormat installs an input format under the given name.
func (r *Registry) RegisterInputFormat(name string, factory InputFormatFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inputFormats[name]; ok {
		return fmt.Errorf("input format %q registered twice", name)
	}
	r.inputFormats[name] = factory
	return nil
}

// RegisterOutputFormat installs an output format under the given name.
func (r *Registry) RegisterOutputFormat(name string, factory OutputFormatFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outputFormats[name]; ok {
		return fmt.Errorf("output format %q registered twice", name)
	}
	r.outputFormats[name] = factory
	return nil
}

// NewSource creates a configured source plugin.
func (r *Registry) NewSource(name string, config map[string]string) (BatchSource, error) {
	r.mu.RLock()
	factory, ok := r.sources[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source %q: %w", name, ErrPluginNotFound)
	}
	return factory(config)
}

// NewSink creates a configured sink plugin.
func (r *Registry) NewSink(name string, config map[string]string) (BatchSink, error) {
	r.mu.RLock()
	factory, ok := r.sinks[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sink %q: %w", name, ErrPluginNotFound)
	}
	return factory(config)
}

// Driver resolves a driver plugin by type and name.
func (r *Registry) Driver(pluginType, pluginName string) (DriverPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[pluginType+"."+pluginName]
	if !ok {
		return DriverPlugin{}, fmt.Errorf("driver %s.%s: %w", pluginType, pluginName, ErrPluginNotFound)
	}
	return d, nil
}

// NewInputFormat creates the input format registered under the given name.
func (r *Registry) NewInputFormat(name string) (InputFormat, error) {
	r.mu.RLock()
	factory, ok := r.inputFormats[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("input format %q: %w", name, ErrPluginNotFound)
	}
	return factory(), nil
}

// NewOutputFormat creates the output format registered under the given
// name.
func (r *Registry) NewOutputFormat(name string) (OutputFormat, error) {
	r.mu.RLock()
	factory, ok := r.outputFormats[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("output format %q: %w", name, ErrPluginNotFound)
	}
	return factory(), nil
}
