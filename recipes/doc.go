// Package recipes builds a di.Registry from a configuration file.
//
// Go code decides which types may be built and how, by adding constructors to
// a Catalog under a name. The file then lists recipes by that name:
//
//	di:
//	  async_policy: fail
//	  recipes:
//	    - type: engine
//	      cache: true
//	      kwargs:
//	        horsepower: 300
//	      attrs:
//	        - name: Label
//	          value: main
//	      calls:
//	        - method: Start
//	    - type: wheel
//	      args: [17]
//
// Names are resolved to registry keys once, while the file is loaded; the
// resolver itself never sees them. Keyword keys are lowercased by the
// configuration loader, so constructor parameters referenced from files
// should be named in lower case with di.Fn.
package recipes
