// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dictation provides optional voice input.
//
// An Engine records speech and reports what it heard as a stream of events:
// zero or one result, zero or more errors, and always exactly one end event
// per session. Whether dictation is available at all is decided once by
// Detect; callers hold a nil Engine when it is not.
//
// RecorderEngine captures audio with an external recorder (arecord, rec or
// ffmpeg) and sends the WAV to a Whisper-compatible transcription endpoint.
package dictation
