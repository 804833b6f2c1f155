// Package journal keeps a buffered record of exchanges with the game
// service and of notable play events.
//
// Entries are held in memory and flushed to a new zstd-compressed JSONL
// file once Limit entries have accumulated, when Flush is called, and on
// Close. Each file is named log<unix-ms>.jsonl.zst and every entry carries
// the run id of the journal that wrote it, so files from several runs can
// share a directory.
//
//	j, err := journal.New(journal.Options{Dir: "logs", Limit: 100})
//	client, err := gameapi.NewClient(gameapi.Options{..., Recorder: j})
//	defer j.Close()
package journal
