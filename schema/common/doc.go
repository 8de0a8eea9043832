// Package common holds leaf rules shared by every character schema
// generation.
package common
