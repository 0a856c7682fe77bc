// Package iam (Identity and Access Management) provides the multi-tenant
// authentication core: developer accounts, registered applications, API
// keys, and the end-user credential and session lifecycle.
//
// # Overview
//
// The iam package is organized into sub-packages that work together:
//
//   - iam/developer    — developer (tenant operator) accounts and portal login
//   - iam/application  — registered applications, app_id and encrypted secrets
//   - iam/apikey       — API key generation, validation, and revocation
//   - iam/user         — end users, sessions, email verification, password reset
//   - iam/auth         — RS256 JWT issuance/verification and Fiber middleware
//   - iam/iamcontainer — dependency wiring for all of the above
//
// # Architecture
//
// Each sub-domain follows the same layered layout:
//
//	HTTP Handler  →  Service Layer  →  Repository Interface  →  Infrastructure (Postgres/Redis)
//
// Sub-domains expose their own error registry (e.g., "AUTH", "USER",
// "APPLICATION"), domain entities with rich methods, and repository
// interfaces implemented under their *infra packages.
//
// # Multi-Tenancy
//
// Every end user belongs to exactly one application, identified by its
// public app_id. The same email may register independently under
// different applications; all queries are scoped by (app_id, ...).
// Developer portal tokens use the reserved app_id "portal".
//
// # Tokens
//
// Access tokens are short-lived RS256 JWTs; refresh tokens are
// long-lived JWTs bound to a server-side session row which stores only
// a SHA-256 hash of the token. Revoking the session invalidates the
// refresh token regardless of its JWT expiry.
package iam
