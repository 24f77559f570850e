// Package inspect reports what a resolver can build.
//
// Snapshot lists every registered recipe with its constructor parameters and
// whether its singleton is cached yet. The snapshot can be served as JSON:
//
//	router := gin.New()
//	inspect.Register(router, resolver)     // GET /di/recipes
//
// or printed as a table at startup:
//
//	inspect.Fprint(os.Stdout, inspect.Snapshot(resolver))
package inspect
