// Package assets serves the dashboard's static assets.
//
// A Source yields named assets. Two sources exist: the stylesheet and images
// embedded in the binary (NewEmbedded), and an S3 bucket (NewS3). Handler
// serves a Source over HTTP with ETag revalidation and a size limit; Resolver
// builds the URLs views link to.
//
//	src, _ := assets.NewS3(assets.S3Options{Bucket: "lot-assets", Region: "eu-central-1"})
//	mux.Handle("/assets/*", http.StripPrefix("/assets/", assets.Handler(src, 5<<20, logger)))
package assets
