// Package opt provides a minimal optional-value envelope.
// It is used wherever "absent means no change" is part of a callback
// contract, such as floodgate modify and replace functions.
package opt
