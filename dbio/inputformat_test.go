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

package dbio

import (
	"context"
	"testing"

	"github.com/matryer/is"

	hydrator "github.com/socking/hydrator-plugins"
)

func TestSplitRanges(t *testing.T) {
	testCases := []struct {
		name     string
		min, max int64
		n        int
		want     [][2]int64
	}{{
		name: "even division",
		min:  0, max: 9, n: 2,
		want: [][2]int64{{0, 5}, {5, 9}},
	}, {
		name: "remainder goes to the first ranges",
		min:  1, max: 10, n: 3,
		want: [][2]int64{{1, 5}, {5, 8}, {8, 10}},
	}, {
		name: "single range",
		min:  1, max: 10, n: 1,
		want: [][2]int64{{1, 10}},
	}, {
		name: "more splits than values",
		min:  1, max: 2, n: 5,
		want: [][2]int64{{1, 2}, {2, 2}},
	}, {
		name: "single value",
		min:  7, max: 7, n: 3,
		want: [][2]int64{{7, 7}},
	}, {
		name: "n below one",
		min:  1, max: 3, n: 0,
		want: [][2]int64{{1, 3}},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			got, err := splitRanges(tc.min, tc.max, tc.n)
			is.NoErr(err)
			is.Equal(got, tc.want)
		})
	}
}

func TestSplitRanges_ReversedBounds(t *testing.T) {
	is := is.New(t)

	// a bounding query with MIN and MAX swapped must fail the run, not
	// crash it
	_, err := splitRanges(10, 1, 4)
	is.True(err != nil)
}

func TestSplitRanges_Contiguous(t *testing.T) {
	is := is.New(t)

	ranges, err := splitRanges(0, 1000, 7)
	is.NoErr(err)
	is.Equal(ranges[0][0], int64(0))
	for i := 1; i < len(ranges); i++ {
		is.Equal(ranges[i][0], ranges[i-1][1]) // no gaps between ranges
	}
	is.Equal(ranges[len(ranges)-1][1], int64(1000))
}

func TestSplitCondition(t *testing.T) {
	is := is.New(t)

	is.Equal(splitCondition("id", 1, 5, false), "id >= 1 AND id < 5")
	is.Equal(splitCondition("id", 8, 10, true), "id >= 8 AND id <= 10")
}

func TestSplits_SingleSplit(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	conf := hydrator.NewJobConf()
	conf.Set(KeyInputQuery, "SELECT * FROM users WHERE $CONDITIONS")
	conf.Set(KeyBoundingQuery, "SELECT MIN(id), MAX(id) FROM users")
	conf.Set(KeyOrderBy, "id")
	conf.SetInt(KeyNumSplits, 1)

	splits, err := DataDrivenInputFormat{}.Splits(ctx, conf)
	is.NoErr(err)
	is.Equal(len(splits), 1)
	is.Equal(splits[0].String(), "1=1") // single split reads everything
}

func TestSplits_NoBoundingQuery(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	conf := hydrator.NewJobConf()
	conf.Set(KeyInputQuery, "SELECT * FROM users WHERE $CONDITIONS")
	conf.SetInt(KeyNumSplits, 4)

	splits, err := DataDrivenInputFormat{}.Splits(ctx, conf)
	is.NoErr(err)
	is.Equal(len(splits), 1)
	is.Equal(splits[0].String(), "1=1")
}

func TestSplits_MissingInputQuery(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	_, err := DataDrivenInputFormat{}.Splits(ctx, hydrator.NewJobConf())
	is.True(err != nil)
}

func TestSplits_MissingOrderBy(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	conf := hydrator.NewJobConf()
	conf.Set(KeyInputQuery, "SELECT * FROM users WHERE $CONDITIONS")
	conf.Set(KeyBoundingQuery, "SELECT MIN(id), MAX(id) FROM users")
	conf.SetInt(KeyNumSplits, 4)

	_, err := DataDrivenInputFormat{}.Splits(ctx, conf)
	is.True(err != nil)
}

func TestNewRecordReader_UnexpectedSplitType(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	_, err := DataDrivenInputFormat{}.NewRecordReader(ctx, fakeSplit("nope"), hydrator.NewJobConf())
	is.True(err != nil)
}

type fakeSplit string

func (s fakeSplit) String() string { return string(s) }
