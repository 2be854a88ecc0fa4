// SPDX-License-Identifier: MPL-2.0

// Package payload encodes and decodes the argument blob carried in an ush:// link.
//
// The sender gzip-compresses the UTF-8 argument text and base64-encodes the
// result with the standard padded alphabet. Decoding reverses both stages and
// insists on valid UTF-8. A decoded-size ceiling protects the handler from
// compression bombs, since links come from arbitrary web content.
package payload
