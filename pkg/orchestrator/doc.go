// Package orchestrator wires the documentation pipeline: load the schema
// source, decode it into ordered properties, render visible DocNodes, apply
// transformers and write the result through a named sink.
package orchestrator
