// Package queue persists pending manifest requests in a SQLite database so
// requests survive between plugin enqueue time and the batch run that writes
// them out. The store hands batch runs an ordered snapshot and later removes
// exactly the ids that snapshot contained.
package queue
