// Package newsletter delivers newsletter issues to confirmed subscribers.
package newsletter
