package triage

import "fmt"

// noContext is embedded in the hybrid prompt when retrieval produced
// nothing.
const noContext = "Tidak ada konteks tambahan tersedia"

const hybridPromptFormat = `Sebagai dokter AI dengan akses ke pedoman medis terkini dan penelitian medis terpercaya, lakukan analisis komprehensif:

GEJALA PASIEN: %s

KONTEKS MEDIS DARI DATABASE:
%s

SUMBER MEDIS TERPERCAYA: %d pedoman dan penelitian

INSTRUKSI ANALISIS:
1. Identifikasi 3-5 kondisi medis dengan likelihood realistis
2. Berikan deskripsi detail setiap kondisi
3. Tentukan tingkat urgensi berdasarkan evidens medis
4. Sertakan rekomendasi spesifik dan actionable
5. Identifikasi red flags berdasarkan pedoman medis

Format JSON response:
{
    "conditions": [
        {"name": "Influenza/Flu", "likelihood": 78, "symptoms": ["demam tinggi", "sakit kepala", "nyeri otot", "kelelahan"], "description": "Infeksi virus dengan gejala sistemik yang cocok dengan presentasi pasien. Likelihood tinggi berdasarkan kombinasi demam, sakit kepala, dan nyeri otot."},
        {"name": "COVID-19", "likelihood": 65, "symptoms": ["demam", "sakit kepala", "kelelahan"], "description": "Infeksi SARS-CoV-2 dengan gejala mirip flu. Perlu pertimbangan karena masih dalam sirkulasi komunitas."},
        {"name": "Dengue Fever", "likelihood": 45, "symptoms": ["demam tinggi", "sakit kepala", "nyeri otot"], "description": "Kemungkinan dengue terutama jika ada riwayat gigitan nyamuk atau endemik di area tersebut."}
    ],
    "triage": {
        "urgency": "medium",
        "priority": 3,
        "recommendation": "Konsultasi dokter dalam 24-48 jam untuk evaluasi dan konfirmasi diagnosis",
        "reasoning": "Kombinasi demam tinggi dan gejala sistemik memerlukan evaluasi medis untuk membedakan antara infeksi virus dan kemungkinan kondisi yang memerlukan perawatan spesifik"
    },
    "recommendations": [
        "Istirahat total dan hidrasi adekuat (8-10 gelas air per hari)",
        "Monitor suhu tubuh setiap 4-6 jam",
        "Konsumsi paracetamol 500mg setiap 6-8 jam untuk demam",
        "Isolasi mandiri jika suspek infeksi menular",
        "Konsumsi makanan bergizi dan mudah dicerna"
    ],
    "red_flags": [
        "Demam di atas 39°C yang persisten lebih dari 3 hari",
        "Sesak napas atau kesulitan bernapas",
        "Penurunan kesadaran atau confusion",
        "Tanda-tanda dehidrasi berat"
    ],
    "follow_up": "Konsultasi dokter dalam 24-48 jam. Segera ke UGD jika mengalami red flags atau gejala memburuk"
}

PENTING: Response harus JSON valid tanpa ` + "```json" + ` atau markdown formatting apapun.`

const basicPromptFormat = `Sebagai dokter AI yang berpengalaman, lakukan analisis mendalam terhadap gejala pasien berikut:

GEJALA PASIEN: %s

Instruksi:
1. Identifikasi minimal 3-5 kondisi medis yang mungkin
2. Berikan persentase likelihood yang realistis (tinggi untuk kondisi yang sangat mungkin)
3. Sertakan gejala terkait untuk setiap kondisi
4. Berikan rekomendasi spesifik dan actionable
5. Tentukan tingkat urgensi berdasarkan gejala
6. Identifikasi red flags jika ada

Response dalam format JSON berikut:
{
    "conditions": [
        {"name": "Kondisi Medis Spesifik", "likelihood": 75, "symptoms": ["demam tinggi", "sakit kepala", "nyeri otot"], "description": "Penjelasan detail kondisi dan mengapa kemungkinannya tinggi berdasarkan gejala"},
        {"name": "Kondisi Alternatif", "likelihood": 45, "symptoms": ["gejala1", "gejala2"], "description": "Penjelasan alternatif kondisi"},
        {"name": "Kondisi Lain", "likelihood": 30, "symptoms": ["gejala3"], "description": "Kemungkinan lain yang perlu dipertimbangkan"}
    ],
    "triage": {
        "urgency": "medium",
        "priority": 3,
        "recommendation": "Konsultasi dengan dokter dalam 24-48 jam untuk evaluasi lebih lanjut",
        "reasoning": "Berdasarkan kombinasi gejala yang dialami, diperlukan evaluasi medis untuk konfirmasi diagnosis"
    },
    "recommendations": [
        "Istirahat yang cukup dan minum banyak air",
        "Monitor suhu tubuh setiap 4 jam",
        "Konsumsi paracetamol untuk demam jika diperlukan",
        "Hindari aktivitas berat hingga gejala membaik",
        "Konsultasi dokter jika gejala memburuk"
    ],
    "red_flags": [
        "Demam di atas 39°C yang tidak turun dengan obat",
        "Kesulitan bernapas atau sesak napas",
        "Nyeri dada yang hebat"
    ],
    "follow_up": "Konsultasi dokter dalam 24-48 jam. Jika mengalami red flags, segera ke UGD"
}

PENTING: Berikan hanya JSON valid tanpa ` + "```json" + ` atau ` + "```" + ` formatting.`

// HybridPrompt builds the context-grounded analysis prompt. An empty
// context renders as a placeholder so the model knows retrieval came up
// empty.
func HybridPrompt(message, context string, totalSources int) string {
	if context == "" {
		context = noContext
	}

	return fmt.Sprintf(hybridPromptFormat, message, context, totalSources)
}

// BasicPrompt builds the analysis prompt used when retrieval is skipped or
// the hybrid path failed.
func BasicPrompt(message string) string {
	return fmt.Sprintf(basicPromptFormat, message)
}
