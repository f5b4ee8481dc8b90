// Package gfl is a client for the GFL labs API, which generates or
// rewrites collection properties from natural language instructions.
//
// Unlike the agent clients, GFL receives the database credentials in the
// request body rather than in headers.
package gfl
