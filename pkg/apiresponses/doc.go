// Package apiresponses renders the error payload every endpoint shares:
// a stable machine-readable kind in "error" plus a human-readable
// explanation in "message". It sits below the api and relay packages so
// both can respond consistently without import cycles.
package apiresponses
