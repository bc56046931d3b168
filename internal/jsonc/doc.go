// Package jsonc parses JSON and JSONC into a syntax tree that keeps every
// byte of the input reachable: significant tokens through nodes, comments
// through the token trivia, unparseable regions through Bogus nodes.
//
// The parser never stops at the first error. Malformed members, elements
// and values keep their source range in a Bogus node and parsing resumes at
// the next separator.
package jsonc
