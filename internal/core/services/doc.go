// Package services implements the driving ports on top of the driven ones.
//
// The mutation engine is split the same way the flows run:
//
//   - VersionManager creates new immutable version records
//   - PageEditor applies structural transforms to binary payloads
//   - Replicator carries per-page side data (text, rendering artifacts)
//     from an old version to a new one, following a page map
//   - PageService orchestrates Validate → Bump → Edit → Map → Replicate →
//     Commit per operation family
//   - DocumentService covers the document lifecycle around the engine
//
// Services hold no locks. Exclusivity across a mutation is enforced by the
// optimistic current-version check inside DocumentStore.SetCurrentVersion.
package services
