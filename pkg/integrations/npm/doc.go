// Package npm provides an HTTP client for the npm registry search API.
//
// # Usage
//
//	client := npm.NewClient("")  // defaults to https://registry.npmjs.org
//	objects, err := client.Search(ctx, "react")
//	for _, o := range objects {
//	    fmt.Println(o.Package.Name, o.Package.Keywords)
//	}
//
// # People
//
// Every search result names up to three kinds of people: the author, the
// publisher and the maintainers. The registry reports the author either as
// an object or as a single "Name <email> (url)" string; [Person] accepts
// both.
package npm
