// Package core computes the participant dashboard and the certificate
// lookup from a worksheet grid.
//
// This package holds all domain logic independent of the HTTP layer. It can
// be used by web handlers, the CLI, or tests without modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Table: a header-indexed view of the raw grid. Columns are matched to
//     roles (name, state, course...) by normalized header, so sheets with
//     slightly different headings still work.
//   - Metrics: [Aggregate] derives the KPIs and breakdowns of a [Table].
//     Every breakdown depends only on its own columns and is left empty
//     when they are missing.
//   - Geo: [MapPoints] places states with known coordinates on the map.
//   - Lookup: [FindCertificates] searches participant names.
//   - Service: the entry point that reads the worksheet through a
//     [sheet.Source] and runs the computations above.
//
// # Data Flow
//
//  1. A handler calls [Service.Summary] or [Service.Certificates]
//  2. Service takes a fetch slot from its [FetchLimiter]
//  3. The worksheet is read under the fetch timeout
//  4. The grid is turned into a [Table] and aggregated
//
// Nothing is cached between requests; each call reflects the spreadsheet as
// it is at that moment.
//
// # Error Handling
//
// Failures are returned as [*Error] values carrying a [Kind]. Use [MapError]
// to convert any error into a [UserMessage] with a support code.
package core
