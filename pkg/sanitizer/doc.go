// Package sanitizer provides normalization functions for roster data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result.
//
// Normalization includes:
//   - Phone numbers: Convert local or international input to strict E.164 (+[country][number])
//   - Emails: Trim and lowercase
//   - Slices: Remove duplicates and empty values, optionally sorted
package sanitizer
