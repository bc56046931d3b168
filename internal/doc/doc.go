// Package doc defines the layout document: a tree of layout primitives that
// language front-ends build and the printer renders.
//
// Only *Group, *Fill and *BestFitting are pointers; every other element is
// a value. Groups reference each other through GroupID, never through
// shared pointers. New validates a tree and precomputes which groups must
// break, so printing never rediscovers it.
package doc
