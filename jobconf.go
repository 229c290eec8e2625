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
	"strconv"
	"sync"
)

// Well-known job configuration keys.
const (
	// KeyInputFormat names the input format the job reads from.
	KeyInputFormat = "job.input.format"
	// KeyOutputFormat names the output format the job writes to.
	KeyOutputFormat = "job.output.format"
)

// JobConf is the string-keyed configuration of a job. Plugins mutate it
// during PrepareRun to select formats and carry connection parameters,
// formats read it when creating readers and writers. It is safe for
// concurrent use.
type JobConf struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewJobConf returns an empty job configuration.
func NewJobConf() *JobConf {
	return &JobConf{values: make(map[string]string)}
}

// Set stores the value under the key.
func (c *JobConf) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns the value stored under the key, an empty string if unset.
func (c *JobConf) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetDefault returns the value stored under the key, def if unset.
func (c *JobConf) GetDefault(key, def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// SetInt stores the integer value under the key.
func (c *JobConf) SetInt(key string, value int) {
	c.Set(key, strconv.Itoa(value))
}

// GetInt returns the integer value stored under the key, def if unset or
// not an integer.
func (c *JobConf) GetInt(key string, def int) int {
	v := c.Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
