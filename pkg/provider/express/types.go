/*
 * Nuts esign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package express

// Wire types of the signature documents API. Only the fields used by this service are mapped.

type createDocumentRequest struct {
	Title          string          `json:"title"`
	ExternalID     string          `json:"externalId"`
	DataToSign     dataToSign      `json:"dataToSign"`
	ContactDetails contactDetails  `json:"contactDetails"`
	Signers        []signerOptions `json:"signers"`
	Notification   *notification   `json:"notification,omitempty"`
	Advanced       *advanced       `json:"advanced,omitempty"`
}

type dataToSign struct {
	Base64Content string    `json:"base64Content"`
	FileName      string    `json:"fileName"`
	Packaging     packaging `json:"packaging"`
}

type packaging struct {
	SignaturePackageFormats []string `json:"signaturePackageFormats"`
}

type contactDetails struct {
	Email string `json:"email,omitempty"`
}

type signerOptions struct {
	ExternalSignerID string           `json:"externalSignerId"`
	RedirectSettings redirectSettings `json:"redirectSettings"`
	SignatureType    signatureType    `json:"signatureType"`
}

type redirectSettings struct {
	RedirectMode string `json:"redirectMode"`
	Success      string `json:"success"`
	Cancel       string `json:"cancel"`
	Error        string `json:"error"`
}

type updateSignerRequest struct {
	RedirectSettings redirectSettings `json:"redirectSettings"`
}

type signatureType struct {
	Mechanism        string   `json:"mechanism"`
	SignatureMethods []string `json:"signatureMethods"`
}

type notification struct {
	SignRequest signRequest `json:"signRequest"`
}

type signRequest struct {
	Email []email `json:"email"`
}

type email struct {
	Language   string `json:"language"`
	Subject    string `json:"subject"`
	Text       string `json:"text"`
	SenderName string `json:"senderName"`
}

type advanced struct {
	GetSocialSecurityNumber bool `json:"getSocialSecurityNumber"`
}

type documentResponse struct {
	DocumentID string           `json:"documentId"`
	ExternalID string           `json:"externalId"`
	Signers    []signerResponse `json:"signers"`
}

type signerResponse struct {
	ID               string `json:"id"`
	ExternalSignerID string `json:"externalSignerId"`
	URL              string `json:"url"`
}

type documentStatus struct {
	DocumentStatus    string   `json:"documentStatus"`
	CompletedPackages []string `json:"completedPackages"`
}
