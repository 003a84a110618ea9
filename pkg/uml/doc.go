// Package uml defines the UML element kinds stored in a project.
//
// Every kind embeds one of the model bases and adds its own fields to the
// element file through Serialize. Kinds are registered in a catalog under
// their class name, together with variant names that preset a property:
//
//	cat := catalog.New()
//	if err := uml.Register(cat); err != nil {
//	    return err
//	}
//	dep := cat.Build("Dependency::Import", model.NewID()).(*uml.Dependency)
//	dep.Keywords() // "import"
//
// # Kinds
//
// Containers: [Model], [Package], [Class], [Interface], [DataType],
// [Enumeration] and [Operation]. Leaves: [Attribute], [Parameter],
// [EnumerationLiteral] and [Comment]. Links: [Association],
// [Generalization] and [Dependency].
//
// # Signatures
//
// Features render a one-line UML signature:
//
//	+ test: uint32 = 10
//	+ run(a: int, out b: string): bool
package uml
