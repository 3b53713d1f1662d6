// Copyright 2025 Poiesic Systems
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


package chunk

import "strings"

const (
	// DefaultChunkSize is the default maximum chunk size in bytes.
	DefaultChunkSize = 512

	// DefaultOverlap is the default number of overlapping bytes between
	// consecutive chunks.
	DefaultOverlap = 100

	// DefaultSeparator is the preferred split boundary.
	DefaultSeparator = "\n\n"
)

// sentenceTerminators are tried in the hard splitter before falling back
// to a word boundary.
var sentenceTerminators = []string{". ", "! ", "? ", "\n"}

// Options controls how text is split.
// Callers must keep Overlap < ChunkSize; the splitter guarantees forward
// progress regardless, but a degenerate overlap produces pathological output.
type Options struct {
	ChunkSize int
	Overlap   int
	Separator string
}

// DefaultOptions returns the splitting defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
		Separator: DefaultSeparator,
	}
}

func (o *Options) applyDefaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	// Zero overlap is a valid choice; only a negative value falls back.
	if o.Overlap < 0 {
		o.Overlap = DefaultOverlap
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
}

// Split splits text into chunks of at most opts.ChunkSize bytes with
// opts.Overlap bytes of context carried between consecutive chunks.
//
// Paragraphs (runs separated by opts.Separator) are accumulated greedily.
// A single paragraph larger than the chunk size is hard-split at the
// nearest sentence terminator, else the nearest space, else exactly at the
// size limit. Empty and whitespace-only chunks are dropped.
func Split(text string, opts Options) []string {
	opts.applyDefaults()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= opts.ChunkSize {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, para := range strings.Split(text, opts.Separator) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(current)+len(para)+len(opts.Separator) > opts.ChunkSize {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				// Seed the next chunk with the tail of the flushed one
				// for context continuity.
				if opts.Overlap > 0 && len(current) > opts.Overlap {
					current = current[len(current)-opts.Overlap:] + opts.Separator + para
				} else {
					current = para
				}
			} else {
				// The paragraph alone exceeds the chunk size.
				hard := splitLong(para, opts.ChunkSize, opts.Overlap)
				if len(hard) > 0 {
					chunks = append(chunks, hard[:len(hard)-1]...)
					current = hard[len(hard)-1]
				}
			}
		} else if current != "" {
			current += opts.Separator + para
		} else {
			current = para
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitLong splits text with no usable separator inside it.
// The cursor advance is clamped to max(start+1, end-overlap) so that an
// overlap >= chunkSize cannot stall the loop.
func splitLong(text string, chunkSize, overlap int) []string {
	var chunks []string
	start := 0

	for start < len(text) {
		// end may point past the text; the advance below must use the
		// unclamped value or the tail would be re-emitted byte by byte.
		end := start + chunkSize
		if end < len(text) {
			end = findBreak(text, start, end)
		}

		sliceEnd := min(end, len(text))
		if c := strings.TrimSpace(text[start:sliceEnd]); c != "" {
			chunks = append(chunks, c)
		}

		next := end - overlap
		if next < start+1 {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// findBreak scans backward from limit for the best break position after
// start: sentence terminator first, then space, then the limit itself.
func findBreak(text string, start, limit int) int {
	window := text[start:limit]

	best := -1
	for _, term := range sentenceTerminators {
		if idx := strings.LastIndex(window, term); idx >= 0 && idx+len(term) > best {
			best = idx + len(term)
		}
	}
	if best > 0 {
		return start + best
	}

	if idx := strings.LastIndex(window, " "); idx > 0 {
		return start + idx + 1
	}

	return limit
}
