// Package model defines the shared data types for document reconstruction.
//
// The input side of the model (Span, Line, Block, Page) mirrors the geometry
// and typography captured by the upstream extractor: text fragments with
// bounding boxes, font names and sizes, colors, and style flags, but no
// structural information. These values are produced once and treated as
// read-only.
//
// The output side (Node, HeadingNode, ParagraphNode, TableNode, Document)
// is the reconstructed logical structure: an ordered list of typed nodes
// plus a nested table of contents with stable anchors. Output values are
// built exactly once during assembly and never mutated afterward.
//
// Coordinates use a top-left origin with Y increasing downward, matching
// the upstream extractor's convention.
package model
