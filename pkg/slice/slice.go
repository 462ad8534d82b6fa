// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with generic helpers
used when resolving id lists against the database.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Unique returns the distinct elements of input in first-seen order.
// It is used to query each id once while the caller keeps the original order.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// Index builds a lookup map keyed by key(v). On duplicate keys the first element wins.
func Index[T any, K comparable](input []T, key func(T) K) map[K]T {
	result := make(map[K]T, len(input))
	for _, v := range input {
		k := key(v)
		if _, ok := result[k]; !ok {
			result[k] = v
		}
	}
	return result
}
