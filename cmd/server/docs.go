// Package main Rezzy Server API
//
//	@title						Rezzy Server API
//	@version					1.0
//	@description				Resume analysis backend: job and resume evaluation, generated documents, plans and usage.
//
//	@license.name				Proprietary
//
//	@host						localhost:8080
//	@BasePath					/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by the identity provider. Format: "Bearer {token}"
//
//	@tag.name					User
//	@tag.description			User registration
//
//	@tag.name					Billing
//	@tag.description			Plans and monthly usage
//
//	@tag.name					Analysis
//	@tag.description			Job and resume analysis
//
//	@tag.name					Generation
//	@tag.description			Cover letters and interview questions
//
//	@tag.name					Jobs
//	@tag.description			Job board search for paid plans
//
//	@tag.name					Resume
//	@tag.description			Resume uploads
//
//	@tag.name					Payment
//	@tag.description			Checkout and payment webhooks
//
//	@tag.name					System
//	@tag.description			Health and metrics
package main
