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
	"context"

	"golang.org/x/time/rate"
)

// SinkMiddleware wraps a BatchSink and adds functionality to it.
type SinkMiddleware interface {
	Wrap(BatchSink) BatchSink
}

// SinkWithMiddleware wraps the sink into the supplied middleware.
func SinkWithMiddleware(s BatchSink, middleware ...SinkMiddleware) BatchSink {
	// apply middleware in reverse order to preserve the order as specified
	for i := len(middleware) - 1; i >= 0; i-- {
		s = middleware[i].Wrap(s)
	}
	return s
}

// SinkWithRateLimit limits the rate at which records are passed to the
// wrapped sink's Transform. A zero RecordsPerSecond disables the limit.
type SinkWithRateLimit struct {
	// RecordsPerSecond is the maximum sustained rate of Transform calls.
	RecordsPerSecond float64
	// Burst is the maximum burst size, it defaults to 1.
	Burst int
}

// Wrap a BatchSink into the rate limiting middleware.
func (m SinkWithRateLimit) Wrap(impl BatchSink) BatchSink {
	if m.RecordsPerSecond <= 0 {
		return impl
	}
	burst := m.Burst
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedSink{
		BatchSink: impl,
		limiter:   rate.NewLimiter(rate.Limit(m.RecordsPerSecond), burst),
	}
}

type rateLimitedSink struct {
	BatchSink
	limiter *rate.Limiter
}

func (s *rateLimitedSink) Transform(ctx context.Context, record *StructuredRecord, emitter Emitter[KeyValue]) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.BatchSink.Transform(ctx, record, emitter)
}
