// Package domain defines the core business entities for ReqBot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Requirement: A single elicited requirement with type and priority
//   - ClassifiedRequirement: A description-keyed classification result
//   - UserStory and Stakeholder: Artifacts derived from requirements
//   - Turn: One entry in the conversation log, with a tagged payload
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
