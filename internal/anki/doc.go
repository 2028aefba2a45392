// Package anki delivers notes to Anki. ConnectClient inserts them into a
// running Anki through the AnkiConnect add-on; APKGSink and CSVSink write
// importable files instead. All three implement Sink.
package anki
