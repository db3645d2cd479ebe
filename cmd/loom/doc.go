// Command loom manages queued node page manifests for a site build.
package main
