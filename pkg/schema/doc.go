// Package schema describes document schemas the way mongoose does:
// an ordered set of dotted paths, each with an instance type, constraints,
// string filters and optionally a nested schema.
//
// Schemas can be built in code:
//
//	s := schema.New().
//	    MustAdd("name", schema.String().WithRequired().WithLowercase().WithTrim()).
//	    MustAdd("gender", schema.String().WithEnum("Male", "Female")).
//	    MustAdd("results", schema.ArrayOfDocuments(schema.New().
//	        MustAdd("score", schema.Number()).
//	        MustAdd("course", schema.Number())))
//
// decoded from YAML or JSON documents with [Parse] and [LoadFile],
// or reflected from Go structs with [FromType] and [FromStruct].
package schema
