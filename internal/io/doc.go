// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Copying files through a staging file
//   - Writing files atomically
//   - Naming hidden staging files next to their destination
//   - Image inspection, resizing and format conversion
//
// # File Operations
//
// Every write goes through a staging file that is renamed into place, so
// a destination path either holds complete content or does not exist.
//
//	// Copy a cover, refusing to overwrite
//	n, err := ioutils.CopyFile(ctx, "/src/A/B/cover.jpg", "/dst/A/B/cover.jpg")
//
//	// Replace a playlist
//	err := ioutils.WriteFile(ctx, "/dst/A/B/B.m3u", []byte("#EXTM3U\n"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/dst/A/B")
//
// External encoders write to StagingPath(target) and the caller renames
// the result once tagging has succeeded.
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Dimensions and depth for picture metadata
//	info, _ := svc.Inspect(data)
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, data, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
