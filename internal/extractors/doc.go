// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to split
// one kind of file into ordered passage texts.
//
// Extractors are registered with the Registry at startup.
package extractors
