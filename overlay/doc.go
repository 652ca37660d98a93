// Package overlay applies OpenAPI Overlay v1.0.0 documents to document trees.
//
// An overlay is an ordered list of actions. Each action selects nodes with a
// JSONPath target and either updates or removes them:
//
//	overlay: 1.0.0
//	info:
//	  title: Roadmap metadata
//	  version: 1.0.0
//	actions:
//	  - target: $.info
//	    update:
//	      version: v2
//	  - target: $.paths['/m365'].get.x-internal
//	    remove: true
//
// # Action Types
//
// Update actions merge content into matched nodes:
//   - For objects: properties are recursively merged
//   - For arrays: the update value is appended
//   - For scalars: the update value replaces the node
//
// Remove actions delete matched nodes from their parent container. When both
// update and remove are specified, remove takes precedence.
//
// Targets never create nodes. An action whose target (or any parent of it)
// is absent matches nothing and is skipped with a warning, or fails when
// [Applier.StrictTargets] is set.
//
// # JSONPath Support
//
// Targets use a small JSONPath subset: $.info, $.paths['/m365'], $.paths.*,
// $.servers[0] and $.servers[-1]. Filters and recursive descent are not
// supported.
//
// # Usage
//
//	a := overlay.NewApplier()
//	a.StrictTargets = true
//	result, err := a.ApplyFile("roadmap-openapi.json", "changes.yaml")
//
// Application works on a deep copy; the input document is never modified.
package overlay
