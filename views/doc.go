// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package views renders the HTML pages and serves the embedded static assets.
// Text choices are markdown (rendered with goldmark, raw HTML dropped);
// datetime choices are shown in DisplayTimeLayout.
package views
