// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange provides the HTTP client for the HealthMate backend.
//
// Each operation is a single request/response round trip with no retry:
//
//   - Send: POST /ask with {"message": text}
//   - Export: GET /export_chat
//   - Clear: POST /clear_chat
//   - QuickActions: GET /quick_actions
//
// Failures come back as *ClientError and fall into two user-facing classes:
// transport (the request did not complete or the reply could not be read)
// and rejection (a readable reply whose success flag is false). Use
// IsTransport and IsRejected to tell them apart.
//
// The client keeps a cookie jar so that all calls address the same
// server-side conversation.
package exchange
