// Package hl7v2 parses, represents, and encodes HL7 v2.x messages in the
// ER7 ("pipe and hat") wire encoding.
//
// ER7 is a five-level delimited text format: a message is a list of
// segments (one per line), a segment is a list of fields, a field is a
// list of repetitions, a repetition is a list of components, and a
// component is a list of subcomponents. The delimiter characters
// themselves are not fixed by the standard — they are declared inside the
// first bytes of every message, so parsing bootstraps its own grammar
// from the input before anything else can be split.
//
// # Quick Start
//
//	import hl7 "github.com/gohl7/hl7v2"
//
//	msg, err := hl7.ParseMessage(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pid := msg.Segment("PID")
//	name := pid.Field(5).Value()
//
//	wire := msg.Encode() // canonical ER7, CR segment terminators
//
// # Delimiters
//
// Every Message owns exactly one Delimiters value, extracted from the
// MSH/BHS/FHS preamble (or DefaultDelimiters for programmatic
// construction). Delimiters are passed explicitly into every split and
// escape operation; there is no global encoding state.
//
// # Batches and Files
//
// ParseBatch and ParseFile handle the BHS/BTS and FHS/FTS framing layers.
// Trailer segments may declare how many messages or batches they wrap;
// Validate checks the declared count against the actual count and reports
// a mismatch as a hard error, since it signals transmission truncation or
// duplication.
//
// # Subpackages
//
//   - stream: zero-copy, event-driven parsing for large inputs
//   - terser: path-string addressing ("PID-3-1") over parsed messages
//   - worker: parallel parsing of independent messages
//   - fhir: conversion of parsed messages to FHIR R4 resources
//   - ack: acknowledgment (ACK/NAK) message construction
//
// # Concurrency
//
// All parsing and encoding is synchronous and CPU-bound. Parsed trees
// have no internal aliasing, so a Message may be moved or shared
// read-only across goroutines without synchronization. The streaming
// scanner is the one exception: its events reference the input buffer,
// which must stay alive and unmodified while events are consumed.
package hl7v2
