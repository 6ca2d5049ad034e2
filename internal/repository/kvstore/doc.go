// Package kvstore persists small string values by key, standing in for
// the non-volatile preferences namespace of the reference board. Two
// backends implement the same contract: a JSON file and a sqlite
// database. Single-key durability is the only guarantee either backend
// makes.
package kvstore
