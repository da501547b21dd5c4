package db

// timeLayout is how timestamps are stored; SQLite date functions understand it.
const timeLayout = "2006-01-02 15:04:05"

// DefaultRetention is the number of snapshots kept by PruneSnapshots.
const DefaultRetention = 10000
