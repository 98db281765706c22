// Package download holds downloaded payloads and persists them to disk.
//
// A [File] is the fully materialised body of a response together with the
// name the server suggested for it. Nothing touches the filesystem until
// [Write] (or [File.Save]) is called, which writes to a temporary file
// beside the destination and renames it into place on success:
//
//	err := download.Write(ctx, f.Content, "/tmp/report.csv", logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// [ResolveName] derives the file name from a Content-Disposition header,
// falling back to the last segment of the request URL and finally to
// [FallbackName].
package download
