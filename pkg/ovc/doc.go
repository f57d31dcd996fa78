// Package ovc polls a booster's overcurrent-detect level while a dock that
// supports it is attached.
//
// A Scanner samples a registered CheckFunc once per period. A fall to
// LevelLow raises an overcurrent; a return to LevelHigh after a low clears
// it. Repeated samples at the same level report nothing.
package ovc
