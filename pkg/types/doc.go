// Package types defines the Store and Cursor interfaces, the Product entity,
// the column contract of the products table, and the standard errors shared
// by the stockroom data-access layer.
package types
