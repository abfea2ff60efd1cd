// Package archive holds the extraction machinery shared by the DAT and PAK containers.
//
// Containers resolve their entries to Entry values and hand each payload to an
// Extractor, which writes it below the destination directory through a Sink. A Sink
// refuses entry names that would escape its directory and publishes every file with a
// temporary file and a rename, so a failed entry never leaves a partial file behind.
//
// Failures of single entries are collected in a Result instead of aborting the batch.
// Only problems with the container itself (signature, header, entry table) are returned
// as errors by the container packages.
package archive
