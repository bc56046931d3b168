// Package comments keeps the side table that attaches source comments to
// syntax nodes and turns them into layout elements.
//
// A comment is placed once, relative to its neighbours: trailing when it
// sits on the same line after the preceding node, leading before the
// following node otherwise, dangling inside an enclosing node with no
// children. The format layer asks the table for the comments of each node
// it lowers; whatever was never asked for is reported by Unformatted.
package comments
