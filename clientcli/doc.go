// Package clientcli provides a client library for kvdrop servers.
//
// It uploads local files as base64 form content, downloads items by key
// and fetches the generated client scripts. Every request carries the
// shared token as an Authorization bearer header. Profiles in
// ~/.kvdrop/config.yaml hold the endpoint and token for each server.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://localhost:8787",
//		Token:    "your-token",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./notes.txt",
//		Key:       "notes.txt",
//	})
//
// # Profile Configuration
//
// Resolve layers per-call overrides over KVDROP_ENDPOINT, KVDROP_TOKEN and
// the selected profile:
//
//	cfg, err := clientcli.Resolve(clientcli.Overrides{Profile: "home"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, results)
package clientcli
